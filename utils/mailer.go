package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"imovelhub/config"
	"imovelhub/models"
)

// Embedded email templates
var emailTemplates = map[string]string{
	"new_lead": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .lead-box { background: #f8f9fa; border-radius: 4px; padding: 15px; margin: 15px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Novo interessado no imóvel {{.PropertyCode}}</h2>
    </div>

    <div class="content">
        <p>Olá {{.OwnerName}},</p>
        <p>Você recebeu um novo contato para o seu imóvel:</p>

        <div class="lead-box">
            <p><strong>Nome:</strong> {{.LeadName}}</p>
            <p><strong>Telefone:</strong> {{.LeadPhone}}</p>
            {{if .LeadEmail}}<p><strong>Email:</strong> {{.LeadEmail}}</p>{{end}}
            {{if .LeadMessage}}<p><strong>Mensagem:</strong> {{.LeadMessage}}</p>{{end}}
        </div>

        <p>Entre em contato o quanto antes para não perder a oportunidade.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} Imovelhub. Todos os direitos reservados.</p>
    </div>
</body>
</html>`,
}

type leadEmailData struct {
	Subject      string
	OwnerName    string
	PropertyCode string
	LeadName     string
	LeadPhone    string
	LeadEmail    string
	LeadMessage  string
	Year         int
}

// SendLeadNotification mails the property owner about a new lead. It
// is a no-op when SMTP is not configured (development, tests).
func SendLeadNotification(owner *models.User, property *models.Property, lead *models.Lead) error {
	if config.AppConfig.SMTPHost == "" {
		return nil
	}

	data := leadEmailData{
		Subject:      fmt.Sprintf("Novo interessado no imóvel %s", property.PropertyCode),
		OwnerName:    owner.Name,
		PropertyCode: property.PropertyCode,
		LeadName:     lead.Name,
		LeadPhone:    lead.Phone,
		LeadEmail:    lead.Email,
		LeadMessage:  lead.Message,
		Year:         time.Now().Year(),
	}

	tmpl, err := template.New("new_lead").Parse(emailTemplates["new_lead"])
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	port, err := strconv.Atoi(config.AppConfig.SMTPPort)
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.AppConfig.FromEmail)
	m.SetHeader("To", owner.Email)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		port,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	return d.DialAndSend(m)
}
