package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/gridadmin/record"
)

// REST talks to a JSON backend that exposes every endpoint under a base URL
// and selects single records with `?id=`.
type REST struct {
	Base   string
	Client *http.Client
}

func NewREST(base string) *REST {
	return &REST{
		Base: strings.TrimSuffix(base, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (r *REST) List(ctx context.Context, endpoint string) ([]record.Record, error) {
	var body any
	err := r.do(ctx, http.MethodGet, endpoint, "", nil, &body)
	if err != nil {
		return nil, err
	}
	return record.Batch(body), nil
}

func (r *REST) Get(ctx context.Context, endpoint, id string) (record.Record, error) {
	body := map[string]any{}
	err := r.do(ctx, http.MethodGet, endpoint, id, nil, &body)
	if err != nil {
		return nil, err
	}
	return record.Normalize(body), nil
}

func (r *REST) Create(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	body := map[string]any{}
	err := r.do(ctx, http.MethodPost, endpoint, "", payload, &body)
	if err != nil {
		return "", err
	}
	for _, key := range []string{"inserted_id", "_id", "id"} {
		if v, ok := body[key]; ok {
			return record.NormalizeValue(v).Text(), nil
		}
	}
	return "", nil
}

func (r *REST) Update(ctx context.Context, endpoint, id string, payload map[string]any) error {
	return r.do(ctx, http.MethodPut, endpoint, id, payload, nil)
}

func (r *REST) Delete(ctx context.Context, endpoint, id string) error {
	return r.do(ctx, http.MethodDelete, endpoint, id, nil, nil)
}

type errorBody struct {
	Error string `json:"error"`
}

func (r *REST) do(ctx context.Context, method, endpoint, id string, payload any, output any) error {

	u := r.Base + "/" + strings.TrimPrefix(endpoint, "/")
	if id != "" {
		u += "?" + url.Values{"id": {id}}.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, endpoint, err)
	}

	if resp.StatusCode >= 400 {
		message := http.StatusText(resp.StatusCode)
		e := errorBody{}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			message = e.Error
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, message)
		}
		return fmt.Errorf("%s %s: %s", method, endpoint, message)
	}

	if output == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	err = json.Unmarshal(data, output)
	if err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}
