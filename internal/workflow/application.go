package workflow

import (
	"context"
	"net/http"

	"jobboard/internal/apierror"
	"jobboard/internal/client"
	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/form"
	"jobboard/internal/listquery"
	"jobboard/internal/mutation"

	"github.com/sirupsen/logrus"
)

const MsgMissingJob = "This job could not be found. Please choose a job before applying."

// PriorChecker reports whether a user already applied to a job.
// *client.Client implements it.
type PriorChecker interface {
	PriorApplication(ctx context.Context, jobID, userID domain.ID) (models.PriorApplication, error)
}

// ApplicationFlow is the job application form. A first application needs an
// uploaded CV; later ones may reuse the CV on record or point to a link.
type ApplicationFlow struct {
	*Session
	Prior models.PriorApplication
}

// StartApplication opens the application form for jobID. A missing job id is
// rejected with a notification before any request is made; a job the backend
// does not know is rejected the same way after the prior check.
func StartApplication(ctx context.Context, exec *mutation.Executor, checker PriorChecker, notifier mutation.Notifier, jobID, userID domain.ID, onClose func([]byte)) (*ApplicationFlow, error) {
	if notifier == nil {
		notifier = mutation.LogNotifier{}
	}
	if jobID <= 0 {
		return nil, missingJob(notifier)
	}

	prior, err := checker.PriorApplication(ctx, jobID, userID)
	if err != nil && apierror.FromError(err).Kind == apierror.KindNotFound {
		return nil, missingJob(notifier)
	}
	if err != nil {
		// Treated as a first application, so the CV upload stays required.
		logrus.WithFields(logrus.Fields{
			"job_id":  jobID,
			"user_id": userID,
		}).WithError(err).Warn("prior application check failed")
		prior = models.PriorApplication{}
	}

	flow := &ApplicationFlow{Prior: prior}
	flow.Session = NewSession(exec, notifier, Spec{
		Entity: listquery.Applications,
		Op:     mutation.OpCreate,
		Schema: form.ApplicationSchema(),
		Initial: form.Draft{
			form.FieldJobID:    int64(jobID),
			form.FieldUserID:   int64(userID),
			form.FieldHasPrior: prior.HasPrior,
			form.FieldUseLink:  false,
		},
		Invalidates: []listquery.Entity{listquery.Jobs},
		Build:       buildApplication,
		OnClose:     onClose,
	})
	return flow, nil
}

func missingJob(notifier mutation.Notifier) *apierror.DisplayError {
	de := &apierror.DisplayError{Status: http.StatusNotFound, Kind: apierror.KindNotFound, Message: MsgMissingJob}
	notifier.Error(de)
	return de
}

// UseLink switches between the uploaded/prior CV and a CV link.
func (f *ApplicationFlow) UseLink(on bool) {
	f.Set(form.FieldUseLink, on)
}

func (f *ApplicationFlow) AttachCV(filename string, content []byte) (string, bool) {
	return f.Attach(form.FieldCV, filename, content)
}

func buildApplication(d form.Draft, files []client.File) (any, []client.File) {
	in := models.ApplicationInput{
		JobID:       d.Int(form.FieldJobID),
		UserID:      d.Int(form.FieldUserID),
		FullName:    d.String("fullName"),
		Email:       d.String("email"),
		Phone:       d.String("phone"),
		CoverLetter: d.String("coverLetter"),
	}
	if d.Bool(form.FieldHasPrior) && d.Bool(form.FieldUseLink) {
		in.UseLink = true
		in.CVLink = d.String(form.FieldCVLink)
		return in, nil
	}
	return in, files
}
