package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/sumire/managers/internal/domain"
)

// User is the subset of a users.info record the service reads.
type User struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	RealName string      `json:"real_name"`
	Profile  UserProfile `json:"profile"`
}

// UserProfile is the subset of a user's embedded profile the service reads.
type UserProfile struct {
	Title    string `json:"title"`
	Image72  string `json:"image_72"`
	Image192 string `json:"image_192"`
}

// Summary projects u into the lookup response shape.
func (u *User) Summary() domain.UserSummary {
	name := u.RealName
	if name == "" {
		name = u.Name
	}
	image := u.Profile.Image192
	if image == "" {
		image = u.Profile.Image72
	}
	return domain.UserSummary{
		ID:    u.ID,
		Name:  name,
		Title: u.Profile.Title,
		Image: image,
	}
}

// GetUser calls users.info for userID.
func (c *Client) GetUser(ctx context.Context, token, userID string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, token, "users.info", url.Values{"user": {userID}}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// GetProfile calls users.profile.get for userID and returns the profile verbatim.
func (c *Client) GetProfile(ctx context.Context, token, userID string) (domain.Profile, error) {
	var out struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := c.get(ctx, token, "users.profile.get", url.Values{"user": {userID}}, &out); err != nil {
		return domain.Profile{}, err
	}
	fields, err := decodeFields(out.Profile)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile fields: %w", err)
	}
	return domain.Profile{Raw: out.Profile, Fields: fields}, nil
}

// decodeFields reads profile.fields. Slack sends an empty array or null when a user
// has no custom fields set. Entries that are not {value, alt} objects are skipped.
func decodeFields(profile json.RawMessage) (map[string]domain.CustomFieldValue, error) {
	if len(profile) == 0 {
		return nil, nil
	}
	var p struct {
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(profile, &p); err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(p.Fields)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	fields := make(map[string]domain.CustomFieldValue, len(entries))
	for id, entry := range entries {
		var v domain.CustomFieldValue
		if err := json.Unmarshal(entry, &v); err != nil {
			slog.Warn("skipping undecodable profile field", "field", id, "error", err)
			continue
		}
		fields[id] = v
	}
	return fields, nil
}

// SetProfile calls users.profile.set with profile as the "profile" object.
func (c *Client) SetProfile(ctx context.Context, token, userID string, profile map[string]any) error {
	body := struct {
		User    string         `json:"user"`
		Profile map[string]any `json:"profile"`
	}{User: userID, Profile: profile}
	return c.post(ctx, token, "users.profile.set", body, nil)
}
