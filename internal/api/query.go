package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Sort directions accepted by the server.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Paging applied by DefaultPage.
const (
	DefaultPageNo = 1
	DefaultStart  = 0
	DefaultLimit  = 50
)

type filter struct {
	Property string      `json:"property"`
	Value    interface{} `json:"value"`
}

type sorter struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type ranger struct {
	Property  string      `json:"property"`
	ValueFrom interface{} `json:"value_from"`
	ValueTo   interface{} `json:"value_to"`
}

// Query builds a filtered, sorted and paged read of one collection. Build
// errors are kept and reported by Fetch.
type Query struct {
	client     *Client
	collection string

	filters []filter
	sorts   []sorter
	ranges  []ranger

	paged              bool
	page, start, limit int

	err error
}

// Filter adds an equality or substring match, in call order.
func (q *Query) Filter(property string, value interface{}) *Query {
	q.filters = append(q.filters, filter{Property: property, Value: value})
	return q
}

// OrderBy adds a sort key. Direction is asc or desc.
func (q *Query) OrderBy(property, direction string) *Query {
	d := strings.ToLower(strings.TrimSpace(direction))
	if d != Asc && d != Desc {
		q.setErr(fmt.Errorf("unsupported sort direction %q", direction))
		return q
	}
	q.sorts = append(q.sorts, sorter{Property: property, Direction: d})
	return q
}

// Range restricts property to [from, to).
func (q *Query) Range(property string, from, to interface{}) *Query {
	q.ranges = append(q.ranges, ranger{Property: property, ValueFrom: from, ValueTo: to})
	return q
}

// Page sets explicit paging.
func (q *Query) Page(page, start, limit int) *Query {
	if page < 1 || start < 0 || limit < 1 {
		q.setErr(fmt.Errorf("invalid paging page=%d start=%d limit=%d", page, start, limit))
		return q
	}
	q.paged = true
	q.page, q.start, q.limit = page, start, limit
	return q
}

// DefaultPage sets the first page of DefaultLimit records.
func (q *Query) DefaultPage() *Query {
	return q.Page(DefaultPageNo, DefaultStart, DefaultLimit)
}

func (q *Query) setErr(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Values renders the query parameters sent to the server.
func (q *Query) Values() (url.Values, error) {
	if q.err != nil {
		return nil, q.err
	}
	v := url.Values{}
	if err := setJSON(v, "filter", q.filters, len(q.filters)); err != nil {
		return nil, err
	}
	if err := setJSON(v, "sort", q.sorts, len(q.sorts)); err != nil {
		return nil, err
	}
	if err := setJSON(v, "range", q.ranges, len(q.ranges)); err != nil {
		return nil, err
	}

	// Without paging the server returns the whole collection.
	if q.paged {
		v.Set("page", strconv.Itoa(q.page))
		v.Set("start", strconv.Itoa(q.start))
		v.Set("limit", strconv.Itoa(q.limit))
	}
	return v, nil
}

func setJSON(v url.Values, key string, val interface{}, n int) error {
	if n == 0 {
		return nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	v.Set(key, string(b))
	return nil
}

// Fetch runs the query.
func (q *Query) Fetch(ctx context.Context) (*Result, error) {
	v, err := q.Values()
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", q.collection, err)
	}
	c := q.client
	return c.do(ctx, "GET", q.collection, c.endpoint(q.collection, "", v), nil)
}

// One runs the query and decodes the first record into out.
func (q *Query) One(ctx context.Context, out interface{}) error {
	res, err := q.Fetch(ctx)
	if err != nil {
		return err
	}
	return res.First(out)
}
