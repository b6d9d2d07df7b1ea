package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/slack"
)

// fakeSlack is an in-memory Slack workspace. Every call is counted.
type fakeSlack struct {
	mu sync.Mutex

	authedUser  *slack.AuthedUser
	exchangeErr error

	users    map[string]*slack.User
	fields   map[string]map[string]domain.CustomFieldValue // user -> field -> value
	readErr  error
	userErr  error
	writeErr error

	calls  int
	writes []map[string]any
}

func newFakeSlack() *fakeSlack {
	return &fakeSlack{
		users:  make(map[string]*slack.User),
		fields: make(map[string]map[string]domain.CustomFieldValue),
	}
}

func (f *fakeSlack) AuthCodeURL(state string) string {
	return "https://slack.test/oauth/v2/authorize?state=" + state
}

func (f *fakeSlack) Exchange(_ context.Context, code string) (*slack.AuthedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.authedUser, nil
}

func (f *fakeSlack) GetProfile(_ context.Context, _, userID string) (domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.readErr != nil {
		return domain.Profile{}, f.readErr
	}
	fields := make(map[string]domain.CustomFieldValue)
	for k, v := range f.fields[userID] {
		fields[k] = v
	}
	return domain.Profile{Raw: []byte(`{"real_name":"Me"}`), Fields: fields}, nil
}

func (f *fakeSlack) GetUser(_ context.Context, _, userID string) (*slack.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, &slack.APIError{Method: "users.info", Code: "user_not_found"}
}

func (f *fakeSlack) SetProfile(_ context.Context, _, userID string, profile map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.writes = append(f.writes, profile)
	if f.writeErr != nil {
		return f.writeErr
	}
	if fields, ok := profile["fields"].(map[string]domain.CustomFieldValue); ok {
		if f.fields[userID] == nil {
			f.fields[userID] = make(map[string]domain.CustomFieldValue)
		}
		for k, v := range fields {
			f.fields[userID][k] = v
		}
	}
	return nil
}

func (f *fakeSlack) setField(userID, field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fields[userID] == nil {
		f.fields[userID] = make(map[string]domain.CustomFieldValue)
	}
	f.fields[userID][field] = domain.CustomFieldValue{Value: value}
}

func (f *fakeSlack) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errNetwork = errors.New("connection reset by peer")
