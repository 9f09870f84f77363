package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/compress"
	"github.com/Tiag8/bible-study-sub001/internal/queue"
	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/Tiag8/bible-study-sub001/internal/service"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/Tiag8/bible-study-sub001/internal/tester"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	index, err := search.NewMemIndex()
	assert.NoError(t, err)

	s := store.NewGormStore(tester.TestDB())
	studies := service.NewStudyService(compress.NewNop(), s, cache.NewNullStudyCache(), index, queue.NewMemoryStudyQueue())
	references := service.NewReferenceService(s, cache.NewNullStudyCache())

	r := chi.NewRouter()
	r.Use(AuthMiddleware(NewNullTokenVerifier()))
	NewHandler(studies, references).Routes(r)

	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_StudyLifecycle(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	router := newTestRouter(t)
	token := uuid.New().String()

	// create
	rec := doRequest(t, router, http.MethodPost, "/v1/studies", token, &v1.CreateStudyRequest{
		Title:   "Estudo",
		Content: "conteúdo",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created v1.CreateStudyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	studyID := created.Study.ID

	// get
	rec = doRequest(t, router, http.MethodGet, "/v1/studies/"+studyID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got v1.GetStudyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Estudo", got.Study.Title)
	assert.Equal(t, "conteúdo", got.Study.Content)

	// update with a stale version conflicts
	title := "Novo título"
	rec = doRequest(t, router, http.MethodPut, "/v1/studies/"+studyID, token, &v1.UpdateStudyRequest{
		Title:   &title,
		Version: 7,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/v1/studies/"+studyID, token, &v1.UpdateStudyRequest{
		Title:   &title,
		Version: 1,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// soft delete and restore
	rec = doRequest(t, router, http.MethodDelete, "/v1/studies/"+studyID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/studies/"+studyID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/trash", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var trash v1.ListDeletedStudiesResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trash))
	assert.Len(t, trash.Studies, 1)

	rec = doRequest(t, router, http.MethodPost, "/v1/studies/"+studyID+"/restore", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/studies/"+studyID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_References(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	router := newTestRouter(t)
	token := uuid.New().String()

	rec := doRequest(t, router, http.MethodPost, "/v1/studies", token, &v1.CreateStudyRequest{Title: "Fonte"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var source v1.CreateStudyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &source))

	rec = doRequest(t, router, http.MethodPost, "/v1/studies", token, &v1.CreateStudyRequest{Title: "Alvo"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var target v1.CreateStudyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &target))

	// an empty list is a JSON array, not null
	rec = doRequest(t, router, http.MethodGet, "/v1/studies/"+source.Study.ID+"/references", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"references":[]`)

	// add an internal reference
	rec = doRequest(t, router, http.MethodPost, "/v1/studies/"+source.Study.ID+"/references", token, &v1.CreateReferenceRequest{
		TargetStudyID: &target.Study.ID,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var createdRef v1.CreateReferenceResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &createdRef))
	assert.Equal(t, "references", createdRef.Reference.Kind)
	assert.Equal(t, "Referência", createdRef.Reference.Label)
	assert.True(t, strings.Contains(createdRef.Reference.Color, "green"))

	// invalid reference shapes are rejected
	rec = doRequest(t, router, http.MethodPost, "/v1/studies/"+source.Study.ID+"/references", token, &v1.CreateReferenceRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	badURL := "javascript:alert(1)"
	rec = doRequest(t, router, http.MethodPost, "/v1/studies/"+source.Study.ID+"/references", token, &v1.CreateReferenceRequest{
		ExternalURL: &badURL,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// reorder with a bad direction is rejected
	rec = doRequest(t, router, http.MethodPost, "/v1/references/"+createdRef.Reference.ID+"/reorder", token, &v1.ReorderReferenceRequest{
		Direction: "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// delete
	rec = doRequest(t, router, http.MethodDelete, "/v1/references/"+createdRef.Reference.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/v1/references/"+createdRef.Reference.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Unauthenticated(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	router := newTestRouter(t)

	// listings degrade to empty results without a token
	rec := doRequest(t, router, http.MethodGet, "/v1/studies", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"studies":[]`)

	rec = doRequest(t, router, http.MethodGet, "/v1/search?q=graça", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hits":[]`)

	// the book catalogue is public
	rec = doRequest(t, router, http.MethodGet, "/v1/books", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var books v1.ListBooksResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	assert.Len(t, books.Books, 66)
}

func TestHandler_RewriteContent(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/content/rewrite", "", &v1.RewriteContentRequest{
		HTML: `<p><a href="bible-graph://study/abc">antigo</a> e <a href="https://example.com">externo</a></p>`,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var res v1.RewriteContentResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.HTML, `href="/estudo/abc"`)
	assert.Contains(t, res.HTML, `href="https://example.com"`)
}

func TestHandler_BadRequests(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	router := newTestRouter(t)
	token := uuid.New().String()

	// malformed body
	req := httptest.NewRequest(http.MethodPost, "/v1/studies", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing title
	rec = doRequest(t, router, http.MethodPost, "/v1/studies", token, &v1.CreateStudyRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// bad chapter filter
	rec = doRequest(t, router, http.MethodGet, "/v1/studies?chapter=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown study
	rec = doRequest(t, router, http.MethodGet, "/v1/studies/"+uuid.New().String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
