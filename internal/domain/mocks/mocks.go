// Package mocks provides testify mocks of the domain ports.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/resumeiq/internal/domain"
)

// MockTextExtractor mocks domain.TextExtractor.
type MockTextExtractor struct{ mock.Mock }

// ExtractPath implements domain.TextExtractor.
func (m *MockTextExtractor) ExtractPath(ctx domain.Context, fileName, path string) (string, error) {
	args := m.Called(ctx, fileName, path)
	return args.String(0), args.Error(1)
}

// MockChatClient mocks domain.ChatClient.
type MockChatClient struct{ mock.Mock }

// Chat implements domain.ChatClient.
func (m *MockChatClient) Chat(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, maxTokens)
	return args.String(0), args.Error(1)
}

// MockJobSearcher mocks domain.JobSearcher.
type MockJobSearcher struct{ mock.Mock }

// Search implements domain.JobSearcher.
func (m *MockJobSearcher) Search(ctx domain.Context, skill, country string) ([]domain.JobListing, error) {
	args := m.Called(ctx, skill, country)
	jobs, _ := args.Get(0).([]domain.JobListing)
	return jobs, args.Error(1)
}

// MockJobCache mocks domain.JobCache.
type MockJobCache struct{ mock.Mock }

// Get implements domain.JobCache.
func (m *MockJobCache) Get(ctx domain.Context, skill, country string) ([]domain.JobListing, bool, error) {
	args := m.Called(ctx, skill, country)
	jobs, _ := args.Get(0).([]domain.JobListing)
	return jobs, args.Bool(1), args.Error(2)
}

// Set implements domain.JobCache.
func (m *MockJobCache) Set(ctx domain.Context, skill, country string, jobs []domain.JobListing) error {
	args := m.Called(ctx, skill, country, jobs)
	return args.Error(0)
}

// MockQuotaLimiter mocks domain.QuotaLimiter.
type MockQuotaLimiter struct{ mock.Mock }

// Allow implements domain.QuotaLimiter.
func (m *MockQuotaLimiter) Allow(ctx domain.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

var (
	_ domain.TextExtractor = (*MockTextExtractor)(nil)
	_ domain.ChatClient    = (*MockChatClient)(nil)
	_ domain.JobSearcher   = (*MockJobSearcher)(nil)
	_ domain.JobCache      = (*MockJobCache)(nil)
	_ domain.QuotaLimiter  = (*MockQuotaLimiter)(nil)
)
