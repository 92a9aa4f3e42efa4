package supabase

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

const defaultPageSize = 1000

// Query describes one ordered, paginated PostgREST read.
type Query struct {
	Table   string
	Columns []string
	NotNull []string
	OrderBy []string
}

// pageFunc reads rows [from, to] of q into dest.
type pageFunc func(ctx context.Context, q Query, from, to int, dest interface{}) error

// Client reads tables through the Supabase REST API with the service key.
type Client struct {
	log      *logger.Logger
	page     pageFunc
	pageSize int
}

func NewClient(log *logger.Logger, url, serviceKey string) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	url = strings.TrimSpace(url)
	serviceKey = strings.TrimSpace(serviceKey)
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("missing SUPABASE_URL or SUPABASE_SERVICE_KEY")
	}
	sc, err := supa.NewClient(url, serviceKey, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	c := &Client{
		log:      log.With("client", "Supabase"),
		pageSize: defaultPageSize,
	}
	c.page = func(ctx context.Context, q Query, from, to int, dest interface{}) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fb := sc.From(q.Table).Select(strings.Join(q.Columns, ","), "", false)
		for _, col := range q.NotNull {
			fb = fb.Not(col, "is", "null")
		}
		for _, col := range q.OrderBy {
			fb = fb.Order(col, &postgrest.OrderOpts{Ascending: true})
		}
		_, err := fb.Range(from, to, "").ExecuteTo(dest)
		return err
	}
	return c, nil
}

// fetchAll pages through q until an empty page comes back. The server may cap
// rows per response below size, so the offset advances by what was received.
func fetchAll[T any](ctx context.Context, c *Client, q Query) ([]T, error) {
	size := c.pageSize
	if size <= 0 {
		size = defaultPageSize
	}
	var out []T
	for from := 0; ; from = len(out) {
		var batch []T
		if err := c.page(ctx, q, from, from+size-1, &batch); err != nil {
			c.log.Warn("supabase read failed", "table", q.Table, "offset", from, "error", err)
			return nil, fmt.Errorf("select %s: %w", q.Table, err)
		}
		if len(batch) == 0 {
			return out, nil
		}
		out = append(out, batch...)
	}
}
