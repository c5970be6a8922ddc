package util

import (
	"fmt"
	"log/slog"

	"github.com/sunthewhat/multisign-api/common"
	"gopkg.in/gomail.v2"
)

func InitDialer() {
	dailer := gomail.NewDialer(*common.Config.MailHost, 587, *common.Config.MailUser, *common.Config.MailPass)
	common.Dialer = dailer
}

// SendCompletionMail notifies the initiator that every required signer has
// signed and the final artifact is ready for download.
func SendCompletionMail(initiatorMail string, requestId string, artifactUrl string) error {
	if common.Dialer == nil {
		return fmt.Errorf("mail dialer not initialized")
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", *common.Config.MailUser)
	mailer.SetHeader("To", initiatorMail)
	mailer.SetHeader("Subject", "Signing request completed")
	mailer.SetBody("text/html", fmt.Sprintf(`
		<p>Dear Initiator,</p>
		<p>All required signers have signed your request <b>%s</b>.</p>
		<p>The final signed artifact is available <a href="%s">here</a>.</p>
		<p>Best regards,<br>MultiSign Team</p>
	`, requestId, artifactUrl))

	if err := common.Dialer.DialAndSend(mailer); err != nil {
		slog.Error("Error Sending Mail", "error", err, "recipient", initiatorMail, "requestId", requestId)
		return err
	}

	slog.Info("Completion email sent", "recipient", initiatorMail, "requestId", requestId)

	return nil
}
