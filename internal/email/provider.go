package email

// Provider sends transactional email. Delivery templates and campaign
// mail live in an external service; the backend only sends short
// operational notices.
type Provider interface {
	Send(to, subject, body string) error
	Close() error
}

// MockProvider discards messages; used in tests and development.
type MockProvider struct {
	Sent []MockMessage
}

type MockMessage struct {
	To      string
	Subject string
	Body    string
}

func (m *MockProvider) Send(to, subject, body string) error {
	m.Sent = append(m.Sent, MockMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (m *MockProvider) Close() error { return nil }
