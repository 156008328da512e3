package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kevelmun/portfolio/internal/contact"
)

type contactView struct {
	Form   contact.Message
	Errors map[string]string
}

var fieldMessages = map[string]string{
	"Name":    "Please tell me your name.",
	"Email":   "Please enter a valid email address.",
	"Message": "Please write a message.",
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", contactView{})
}

// submitContact stores the message, emails it when SMTP is configured and
// sends the visitor on to WhatsApp with the message prefilled.
func (s *Server) submitContact(c *gin.Context) {
	var form contact.Message
	bindErr := c.ShouldBind(&form)
	form = form.Trimmed()

	if errs := formErrors(form, bindErr); len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "contact.html", contactView{Form: form, Errors: errs})
		return
	}

	redirect, err := s.composer.RedirectURL(form)
	if err != nil {
		s.logger.Error("compose whatsapp message", "error", err)
		c.HTML(http.StatusInternalServerError, "contact.html", contactView{
			Form:   form,
			Errors: map[string]string{"Form": "Something went wrong, please try again."},
		})
		return
	}

	sub, err := s.store.SaveContact(c.Request.Context(), contact.Submission{
		Message:   form,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		// The visitor still reaches WhatsApp; only the archive copy is lost.
		s.logger.Error("save contact message", "error", err)
	} else {
		s.logger.Info("contact message received", "id", sub.ID)
		s.goBackground("notify contact", func(ctx context.Context) error {
			return s.notifier.Notify(ctx, sub)
		})
	}

	if isHTMX(c) {
		c.Header("HX-Redirect", redirect)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, redirect)
}

// formErrors maps binding failures to one message per field. Fields that
// are blank after trimming count as missing.
func formErrors(form contact.Message, bindErr error) map[string]string {
	errs := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(bindErr, &verrs) {
		for _, fe := range verrs {
			if msg, ok := fieldMessages[fe.Field()]; ok {
				errs[fe.Field()] = msg
			}
		}
	} else if bindErr != nil {
		errs["Form"] = "The form could not be read, please try again."
	}
	if form.Name == "" {
		errs["Name"] = fieldMessages["Name"]
	}
	if form.Message == "" {
		errs["Message"] = fieldMessages["Message"]
	}
	return errs
}
