package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/sirupsen/logrus"
)

// Hit is one ranked search result.
type Hit struct {
	StudyID string
	Title   string
	Score   float64
}

// studyDoc is the indexed shape of a study.
type studyDoc struct {
	UserID  string   `json:"user_id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Index is the full-text study index. All operations are scoped by user.
type Index struct {
	index bleve.Index
}

func studyMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()

	doc := bleve.NewDocumentMapping()

	userField := bleve.NewTextFieldMapping()
	userField.Analyzer = keyword.Name
	userField.IncludeInAll = false
	doc.AddFieldMappingsAt("user_id", userField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = true
	doc.AddFieldMappingsAt("title", textField)
	doc.AddFieldMappingsAt("content", textField)
	doc.AddFieldMappingsAt("tags", textField)

	m.DefaultMapping = doc
	return m
}

// NewIndex opens (or creates) the on-disk index at path.
func NewIndex(path string) (*Index, error) {
	index, err := bleve.Open(path)
	if err != nil {
		index, err = bleve.New(path, studyMapping())
		if err != nil {
			return nil, err
		}
		logrus.Infof("created search index at %s", path)
	}

	return &Index{index: index}, nil
}

// NewMemIndex creates an in-memory index, used in tests.
func NewMemIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(studyMapping())
	if err != nil {
		return nil, err
	}
	return &Index{index: index}, nil
}

func (i *Index) Close() error {
	return i.index.Close()
}

// IndexStudy adds or replaces a study in the index.
func (i *Index) IndexStudy(studyID, userID, title, content string, tags []string) error {
	return i.index.Index(studyID, &studyDoc{
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    tags,
	})
}

// DeleteStudy removes a study from the index.
func (i *Index) DeleteStudy(studyID string) error {
	return i.index.Delete(studyID)
}

// Search runs a ranked full-text query over the user's studies. Hits come
// back in descending score order.
func (i *Index) Search(userID, q string, limit int) ([]*Hit, error) {
	if limit <= 0 {
		limit = 50
	}

	match := bleve.NewMatchQuery(q)
	owner := bleve.NewTermQuery(userID)
	owner.SetField("user_id")

	req := bleve.NewSearchRequestOptions(
		query.NewConjunctionQuery([]query.Query{owner, match}),
		limit, 0, false,
	)
	req.Fields = []string{"title"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, err
	}

	hits := make([]*Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		title, _ := h.Fields["title"].(string)
		hits = append(hits, &Hit{
			StudyID: h.ID,
			Title:   title,
			Score:   h.Score,
		})
	}

	return hits, nil
}
