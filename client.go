package biblestudy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
)

// Client is the Go client of the study REST API.
type Client interface {
	CreateStudy(ctx context.Context, req *v1.CreateStudyRequest) (*v1.CreateStudyResponse, error)
	GetStudy(ctx context.Context, studyID string) (*v1.GetStudyResponse, error)
	ListStudies(ctx context.Context, bookName string, chapter int) (*v1.ListStudiesResponse, error)
	UpdateStudy(ctx context.Context, studyID string, req *v1.UpdateStudyRequest) (*v1.UpdateStudyResponse, error)
	DeleteStudy(ctx context.Context, studyID string) (*v1.DeleteStudyResponse, error)
	RestoreStudy(ctx context.Context, studyID string) (*v1.RestoreStudyResponse, error)
	ListDeletedStudies(ctx context.Context) (*v1.ListDeletedStudiesResponse, error)
	ListStudyRevisions(ctx context.Context, studyID string) (*v1.ListStudyRevisionsResponse, error)

	ListReferences(ctx context.Context, studyID string) (*v1.ListReferencesResponse, error)
	AddReference(ctx context.Context, studyID string, req *v1.CreateReferenceRequest) (*v1.CreateReferenceResponse, error)
	DeleteReference(ctx context.Context, referenceID string) error
	ReorderReference(ctx context.Context, referenceID, direction string) (*v1.ReorderReferenceResponse, error)

	Search(ctx context.Context, query string) (*v1.SearchResponse, error)
	ListBooks(ctx context.Context) (*v1.ListBooksResponse, error)
	RewriteContent(ctx context.Context, html string) (*v1.RewriteContentResponse, error)
}

type client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient creates a client talking to the server at baseURL. The token
// is sent as a bearer token on every request.
func NewClient(baseURL, token string) Client {
	return &client{
		base:  baseURL,
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *client) CreateStudy(ctx context.Context, req *v1.CreateStudyRequest) (*v1.CreateStudyResponse, error) {
	var res v1.CreateStudyResponse
	if err := c.do(ctx, http.MethodPost, "/v1/studies", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) GetStudy(ctx context.Context, studyID string) (*v1.GetStudyResponse, error) {
	var res v1.GetStudyResponse
	if err := c.do(ctx, http.MethodGet, "/v1/studies/"+studyID, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListStudies(ctx context.Context, bookName string, chapter int) (*v1.ListStudiesResponse, error) {
	q := url.Values{}
	if bookName != "" {
		q.Set("book", bookName)
	}
	if chapter > 0 {
		q.Set("chapter", strconv.Itoa(chapter))
	}

	path := "/v1/studies"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res v1.ListStudiesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) UpdateStudy(ctx context.Context, studyID string, req *v1.UpdateStudyRequest) (*v1.UpdateStudyResponse, error) {
	var res v1.UpdateStudyResponse
	if err := c.do(ctx, http.MethodPut, "/v1/studies/"+studyID, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) DeleteStudy(ctx context.Context, studyID string) (*v1.DeleteStudyResponse, error) {
	var res v1.DeleteStudyResponse
	if err := c.do(ctx, http.MethodDelete, "/v1/studies/"+studyID, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) RestoreStudy(ctx context.Context, studyID string) (*v1.RestoreStudyResponse, error) {
	var res v1.RestoreStudyResponse
	if err := c.do(ctx, http.MethodPost, "/v1/studies/"+studyID+"/restore", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListDeletedStudies(ctx context.Context) (*v1.ListDeletedStudiesResponse, error) {
	var res v1.ListDeletedStudiesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/trash", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListStudyRevisions(ctx context.Context, studyID string) (*v1.ListStudyRevisionsResponse, error) {
	var res v1.ListStudyRevisionsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/studies/"+studyID+"/revisions", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListReferences(ctx context.Context, studyID string) (*v1.ListReferencesResponse, error) {
	var res v1.ListReferencesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/studies/"+studyID+"/references", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) AddReference(ctx context.Context, studyID string, req *v1.CreateReferenceRequest) (*v1.CreateReferenceResponse, error) {
	var res v1.CreateReferenceResponse
	if err := c.do(ctx, http.MethodPost, "/v1/studies/"+studyID+"/references", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) DeleteReference(ctx context.Context, referenceID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/references/"+referenceID, nil, nil)
}

func (c *client) ReorderReference(ctx context.Context, referenceID, direction string) (*v1.ReorderReferenceResponse, error) {
	var res v1.ReorderReferenceResponse
	req := &v1.ReorderReferenceRequest{Direction: direction}
	if err := c.do(ctx, http.MethodPost, "/v1/references/"+referenceID+"/reorder", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) Search(ctx context.Context, query string) (*v1.SearchResponse, error) {
	q := url.Values{}
	q.Set("q", query)

	var res v1.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/v1/search?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListBooks(ctx context.Context) (*v1.ListBooksResponse, error) {
	var res v1.ListBooksResponse
	if err := c.do(ctx, http.MethodGet, "/v1/books", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) RewriteContent(ctx context.Context, html string) (*v1.RewriteContentResponse, error) {
	var res v1.RewriteContentResponse
	req := &v1.RewriteContentRequest{HTML: html}
	if err := c.do(ctx, http.MethodPost, "/v1/content/rewrite", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var apiErr v1.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status: %s", res.Status)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}
