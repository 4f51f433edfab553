package websearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/service/gateway"
	"github.com/christlutheran/kbchat/pkg/tool/websearch"
	"github.com/m-mizutani/gt"
)

func call(args string) model.ToolCall {
	return model.ToolCall{
		ID:   model.NewToolCallID(),
		Type: "function",
		Function: model.FunctionCall{
			Name:      websearch.Name,
			Arguments: args,
		},
	}
}

func TestExecuteCollectsSiteLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host
		w.Write([]byte(`<html><body>
			<a href="` + base + `/baptism">Baptism</a>
			<a href="` + base + `/communion">Communion</a>
		</body></html>`))
	}))
	defer srv.Close()

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(srv.URL) + `/[^?]*$`)
	gw := gateway.New(
		gateway.WithAllowlist(pattern),
		gateway.WithEndpoints(gateway.Endpoint{
			Name: "test",
			Base: srv.URL,
			SearchURL: func(term string) string {
				return srv.URL + "/search/" + url.PathEscape(term)
			},
		}),
	)

	x := websearch.New(gw)
	result := x.Execute(context.Background(), call(`{"query":"baptism"}`))

	gt.True(t, result.OK)
	gt.Equal(t, result.Note, "baptism")

	payload := gt.Cast[gateway.SearchResult](t, result.Payload)
	gt.A(t, payload.Results).Length(1)
	gt.A(t, payload.Results[0].Links).Length(2)
	gt.Equal(t, payload.Results[0].Links[0], srv.URL+"/baptism")
}

func TestExecuteMalformedArgumentsStillOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(srv.URL) + `/[^?]*$`)
	gw := gateway.New(
		gateway.WithAllowlist(pattern),
		gateway.WithEndpoints(gateway.Endpoint{
			Name: "test",
			Base: srv.URL,
			SearchURL: func(term string) string {
				return srv.URL + "/search/" + url.PathEscape(term)
			},
		}),
	)

	// Missing query decodes to the empty string; the search is still
	// best-effort OK with empty results.
	x := websearch.New(gw)
	result := x.Execute(context.Background(), call(`{broken`))

	gt.True(t, result.OK)
	payload := gt.Cast[gateway.SearchResult](t, result.Payload)
	gt.Equal(t, payload.Query, "")
}

func TestSpec(t *testing.T) {
	gw := gateway.New()

	spec := websearch.New(gw).Spec()
	gt.Equal(t, spec.Function.Name, websearch.Name)
	gt.Equal(t, spec.Type, "function")
}
