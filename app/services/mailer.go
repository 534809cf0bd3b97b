package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/omarwaleed/egystore/app/models"
	"github.com/omarwaleed/egystore/app/utils/format"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {

	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth(m.config.From, m.config.Username, m.config.Password, m.config.Host)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg))
	if err != nil {
		log.Printf("Failed to send HTML email to %s: %v", to, err)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// BuildOrderReceiptBody renders the order-confirmation email.
func BuildOrderReceiptBody(order *models.Order, customerName string) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		rows.WriteString(fmt.Sprintf(`
                <tr>
                    <td>%s</td>
                    <td class="num">%d</td>
                    <td class="num">%s</td>
                    <td class="num">%s</td>
                </tr>`,
			item.ProductName, item.Qty, format.Money(item.Price), format.Money(item.Subtotal)))
	}

	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Your Order Confirmation</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .header { background-color: #f8f8f8; padding: 10px 0; text-align: center; border-bottom: 1px solid #ddd; }
                table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
                th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
                .num { text-align: right; }
                .total { font-size: 1.2em; font-weight: bold; }
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="header">
                    <h2>Thank you for your order, %s!</h2>
                </div>
                <p>Order <strong>%s</strong> was placed successfully and is now pending.</p>
                <p>Delivery to: %s<br>Phone: %s</p>
                <table>
                    <tr><th>Product</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Subtotal</th></tr>
                    %s
                    <tr><td colspan="3" class="total">Total</td><td class="num total">%s</td></tr>
                </table>
                <div class="footer">
                    <p>&copy; 2025 EgyStore. All rights reserved.</p>
                </div>
            </div>
        </body>
        </html>
    `, customerName, order.OrderCode, order.Address, order.Phone, rows.String(), format.Money(order.TotalPrice))
}
