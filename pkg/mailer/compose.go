package mailer

import (
	"errors"
	"strings"

	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has no recipient or content")

// Compose resolves the subject and bodies of a job. Template jobs are rendered
// from the embedded templates, anything else is sent as given.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrEmptyJob
	}
	if job.Template != "" {
		return mailtpl.Render(strings.ToLower(job.Template), job.Data)
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", ErrEmptyJob
	}
	return job.Subject, job.Text, job.HTML, nil
}
