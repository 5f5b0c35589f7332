package services

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/social-hub/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

// bufferWriter собирает тело письма для проверки.
type bufferWriter struct {
	bytes.Buffer
	closed bool
}

func (b *bufferWriter) Close() error {
	b.closed = true
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSenderService_SendOrganizerDecision(t *testing.T) {
	tests := []struct {
		name         string
		body         []byte
		connectErr   error
		wantSubject  string
		wantErr      bool
		errorMessage string
	}{
		{
			name:        "approved",
			body:        []byte(`{"user_uid":"u1","email":"ann@example.com","name":"Ann","decision":"approved"}`),
			wantSubject: "Subject: Your organizer request was approved",
		},
		{
			name:        "rejected",
			body:        []byte(`{"user_uid":"u1","email":"ann@example.com","name":"Ann","decision":"rejected"}`),
			wantSubject: "Subject: Your organizer request was rejected",
		},
		{
			name:         "invalid JSON",
			body:         []byte(`invalid json`),
			wantErr:      true,
			errorMessage: "error unmarshalling message",
		},
		{
			name:         "unexpected decision",
			body:         []byte(`{"email":"ann@example.com","decision":"pending"}`),
			wantErr:      true,
			errorMessage: "unexpected decision",
		},
		{
			name:         "no recipient",
			body:         []byte(`{"decision":"approved"}`),
			wantErr:      true,
			errorMessage: "no recipient",
		},
		{
			name:         "SMTP connection error",
			body:         []byte(`{"email":"ann@example.com","name":"Ann","decision":"approved"}`),
			connectErr:   errors.New("connection error"),
			wantErr:      true,
			errorMessage: "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			client := new(MockSMTPClient)
			writer := &bufferWriter{}

			transport.On("GetSMTPUser").Return("sender@example.com").Maybe()
			if tt.connectErr != nil {
				transport.On("Connect").Return(nil, tt.connectErr).Once()
			} else {
				transport.On("Connect").Return(client, nil).Maybe()
				client.On("Mail", "sender@example.com").Return(nil).Maybe()
				client.On("Rcpt", "ann@example.com").Return(nil).Maybe()
				client.On("Data").Return(writer, nil).Maybe()
				client.On("Quit").Return(nil).Maybe()
				client.On("Close").Return(nil).Maybe()
			}

			service := NewSenderService(newNoopLogger(), transport)
			err := service.SendOrganizerDecision(tt.body)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
				return
			}
			assert.NoError(t, err)
			assert.True(t, writer.closed)
			assert.Contains(t, writer.String(), tt.wantSubject)
			assert.Contains(t, writer.String(), "To: ann@example.com")
			assert.Contains(t, writer.String(), "Hello, Ann!")
			client.AssertCalled(t, "Quit")
		})
	}
}

func TestSenderService_RcptFailure(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	transport.On("GetSMTPUser").Return("sender@example.com")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "sender@example.com").Return(nil).Once()
	client.On("Rcpt", "ann@example.com").Return(errors.New("mailbox unavailable")).Once()
	client.On("Close").Return(nil).Once()

	service := NewSenderService(newNoopLogger(), transport)
	err := service.SendOrganizerDecision([]byte(`{"email":"ann@example.com","name":"Ann","decision":"approved"}`))
	assert.ErrorContains(t, err, "mailbox unavailable")
	client.AssertExpectations(t)
}
