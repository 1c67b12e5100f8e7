package helpers

import (
	"fmt"

	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
)

// EnsureRecipientAndEmail fills Email/RecipientEmail in job data from job.To when missing.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
