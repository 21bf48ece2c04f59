package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// LogQuery selects one page of audit records. UserID narrows them to what
// one account did; zero values do not filter.
type LogQuery struct {
	Page    int
	Size    int
	Keyword string
	UserID  int64
}

func (q LogQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		v.Set("keyword", kw)
	}
	if q.UserID != 0 {
		v.Set("userId", strconv.FormatInt(q.UserID, 10))
	}
	return v
}

// Logs fetches one page of audit records, newest first
func (c *Client) Logs(ctx context.Context, q LogQuery) (*api.LogPage, error) {
	if q.Page < 1 {
		return nil, &ValidationError{Field: "page", Message: "Page must be at least 1"}
	}
	if q.Size < 1 {
		return nil, &ValidationError{Field: "size", Message: "Page size must be at least 1"}
	}

	var page api.LogPage
	if _, err := c.do(ctx, http.MethodGet, "/logs/", q.values(), nil, &page); err != nil {
		return nil, err
	}
	if page.List == nil {
		page.List = []api.OperationLog{}
	}
	return &page, nil
}
