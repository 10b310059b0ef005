package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// pathf joins escaped path segments into an absolute API path
func pathf(segments ...any) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		switch v := s.(type) {
		case string:
			b.WriteString(url.PathEscape(v))
		case int:
			b.WriteString(strconv.Itoa(v))
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		default:
			b.WriteString(url.PathEscape(fmt.Sprint(v)))
		}
	}
	return b.String()
}

// GetUser fetches a user by username (email). Anything other than 200 is an error.
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	path := pathf("users", username)

	var user User
	status, err := c.Get(ctx, path, &user)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Method: http.MethodGet, Path: path, StatusCode: status}
	}
	if user.Username == "" {
		user.Username = user.Email
	}
	return &user, nil
}
