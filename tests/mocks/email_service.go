package mocks

import (
	"context"

	"greenbasket/internal/service/email"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendMilestoneEmail(ctx context.Context, toEmail, fullName, title, message string) error {
	args := m.Called(ctx, toEmail, fullName, title, message)
	return args.Error(0)
}

func (m *EmailService) SendWeeklySummaryEmail(ctx context.Context, toEmail, fullName string, summary email.WeeklySummary) error {
	args := m.Called(ctx, toEmail, fullName, summary)
	return args.Error(0)
}
