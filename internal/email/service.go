package email

import (
	"fmt"
	"net/smtp"
)

// Service sends transactional mail over SMTP.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderConfirmation mails the order summary right after checkout.
func (s *Service) SendOrderConfirmation(to, orderNumber string, total float64, items []OrderItem) error {
	subject := fmt.Sprintf("Order confirmed - %s", orderNumber)
	body := BuildOrderConfirmationBody(orderNumber, total, items)
	return s.send(to, subject, body)
}

// SendPaymentReceipt mails a receipt once the payment settles.
func (s *Service) SendPaymentReceipt(to, orderNumber string, total float64) error {
	subject := fmt.Sprintf("Payment received - %s", orderNumber)
	body := BuildPaymentReceiptBody(orderNumber, total)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
