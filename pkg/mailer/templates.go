package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var roleChangedTmpl = template.Must(template.New(TemplateRoleChanged).Parse(`
<p>Hi,</p>
<p>An administrator changed the role on your account <b>{{.Email}}</b> to <b>{{.Role}}</b>.</p>
<p>If you did not expect this change, contact support.</p>
`))

var accountDeletedTmpl = template.Must(template.New(TemplateAccountDeleted).Parse(`
<p>Hi,</p>
<p>Your account <b>{{.Email}}</b> has been removed by an administrator.</p>
<p>If you believe this is a mistake, contact support.</p>
`))

// Render produces subject, text and html bodies for a templated job.
func Render(job EmailJob) (subject, text, html string, err error) {
	var tmpl *template.Template
	switch job.Template {
	case TemplateRoleChanged:
		subject = "Your account role was changed"
		tmpl = roleChangedTmpl
	case TemplateAccountDeleted:
		subject = "Your account was deleted"
		tmpl = accountDeletedTmpl
	case "":
		return job.Subject, job.Text, job.HTML, nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", job.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, job.Data); err != nil {
		return "", "", "", err
	}
	return subject, "", buf.String(), nil
}
