package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRoleChanged(t *testing.T) {
	subject, _, html, err := Render(EmailJob{
		To:       "b@x.com",
		Template: TemplateRoleChanged,
		Data:     map[string]any{"Email": "b@x.com", "Role": "admin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Your account role was changed", subject)
	assert.Contains(t, html, "b@x.com")
	assert.Contains(t, html, "admin")
}

func TestRenderAccountDeleted(t *testing.T) {
	subject, _, html, err := Render(EmailJob{
		To:       "b@x.com",
		Template: TemplateAccountDeleted,
		Data:     map[string]any{"Email": "b@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Your account was deleted", subject)
	assert.Contains(t, html, "b@x.com")
	assert.Contains(t, html, "removed by an administrator")
}

func TestRenderRawBodyPassthrough(t *testing.T) {
	subject, text, html, err := Render(EmailJob{
		To:      "b@x.com",
		Subject: "hello",
		Text:    "plain",
		HTML:    "<p>rich</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", subject)
	assert.Equal(t, "plain", text)
	assert.Equal(t, "<p>rich</p>", html)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render(EmailJob{To: "b@x.com", Template: "welcome_v2"})
	assert.Error(t, err)
}
