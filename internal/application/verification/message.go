package verification

import (
	"fmt"
	"html/template"
	"strings"
)

const mailSubject = "GoodSpace email verification code"

var mailTmpl = template.Must(template.New("verification").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>GoodSpace email verification</h2>
  <p>Enter the following code to verify your email address:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
  <p>The code expires in {{.ExpireMinutes}} minutes.</p>
  <p>If you did not request this, you can ignore this message.</p>
</body>
</html>`))

// renderMessage fills the verification mail body for the given code.
func renderMessage(code string, expireMinutes int) (string, error) {
	var sb strings.Builder
	err := mailTmpl.Execute(&sb, struct {
		Code          string
		ExpireMinutes int
	}{Code: code, ExpireMinutes: expireMinutes})
	if err != nil {
		return "", fmt.Errorf("render verification mail: %w", err)
	}
	return sb.String(), nil
}
