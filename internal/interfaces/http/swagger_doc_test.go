package http_test

import (
	"encoding/json"
	"net/http"
	"os"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scims-analytics/internal/application/dto"
)

// swaggerDoc subconjunto de docs/swagger.json que se valida contra el código.
type swaggerDoc struct {
	Paths map[string]map[string]struct {
		Parameters []struct {
			Name string `json:"name"`
			In   string `json:"in"`
		} `json:"parameters"`
	} `json:"paths"`
}

func loadSwagger(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := os.ReadFile("../../../docs/swagger.json")
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func queryParams(doc swaggerDoc, path, method string) []string {
	var names []string
	for _, p := range doc.Paths[path][method].Parameters {
		if p.In == "query" {
			names = append(names, p.Name)
		}
	}
	return names
}

func queryTags(v any) []string {
	var tags []string
	rt := reflect.TypeOf(v)
	for i := 0; i < rt.NumField(); i++ {
		if tag := rt.Field(i).Tag.Get("query"); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Cada ruta GET registrada bajo /api aparece documentada.
func TestSwagger_DocumentaTodasLasRutas(t *testing.T) {
	doc := loadSwagger(t)
	env := newReportEnv()

	var seen int
	for _, r := range env.app.GetRoutes(true) {
		if r.Method != http.MethodGet || !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		seen++
		_, ok := doc.Paths[r.Path]["get"]
		assert.True(t, ok, "ruta %s sin documentar en swagger.json", r.Path)
	}
	assert.Equal(t, 4, seen)
}

// Las anotaciones @Router del handler coinciden con el documento servido en /docs.
func TestSwagger_AnotacionesDelHandler(t *testing.T) {
	doc := loadSwagger(t)
	src, err := os.ReadFile("sales_report_handler.go")
	require.NoError(t, err)

	routes := regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`).FindAllStringSubmatch(string(src), -1)
	require.NotEmpty(t, routes)
	for _, m := range routes {
		_, ok := doc.Paths[m[1]][m[2]]
		assert.True(t, ok, "@Router %s [%s] no está en swagger.json", m[1], m[2])
	}
}

// Los parámetros de query documentados son los que lee el handler.
func TestSwagger_ParametrosDeQuery(t *testing.T) {
	doc := loadSwagger(t)
	report := queryTags(dto.SalesReportRequest{})

	for _, path := range []string{
		"/api/reports/sales/summary",
		"/api/reports/sales/filters",
		"/api/reports/sales/export.pdf",
	} {
		assert.ElementsMatch(t, report, queryParams(doc, path, "get"), path)
	}
	assert.ElementsMatch(t,
		append(report, queryTags(dto.PageRequest{})...),
		queryParams(doc, "/api/reports/sales/transactions", "get"),
	)
}
