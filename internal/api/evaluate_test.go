package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkoval/flagpole/internal/evaluation"
	"github.com/dkoval/flagpole/internal/store"
	"github.com/dkoval/flagpole/internal/testutil"
)

func decodeResult(t *testing.T, body []byte) evaluation.Result {
	t.Helper()
	var result evaluation.Result
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode result: %v\nbody: %s", err, body)
	}
	return result
}

func evaluate(t *testing.T, handler http.Handler, body string) *evaluation.Result {
	t.Helper()
	rr := (&testutil.HTTPRequest{Method: "POST", Path: "/v1/evaluate", Body: body}).Do(t, handler)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rr.Code, rr.Body)
	}
	result := decodeResult(t, rr.Body.Bytes())
	return &result
}

func TestEvaluate(t *testing.T) {
	handler, st := newTestServer(t)
	testutil.SeedFlags(context.Background(), t, st, []store.CreateParams{{
		Key:      "new-ui",
		Enabled:  true,
		Rollout:  testutil.RolloutOf(50),
		Variants: map[string]uint32{"A": 1, "B": 1},
	}})

	// user1 hashes outside the 50% gate.
	result := evaluate(t, handler, `{"key":"new-ui","user_id":"user1"}`)
	if result.Matched || result.Variant != "" {
		t.Errorf("user1: got %+v, want unmatched", result)
	}

	// user2 is inside and lands on variant A.
	result = evaluate(t, handler, `{"key":"new-ui","user_id":"user2"}`)
	if !result.Matched || result.Variant != "A" {
		t.Errorf("user2: got %+v, want matched variant A", result)
	}
	if result.Key != "new-ui" {
		t.Errorf("result key = %q", result.Key)
	}
}

func TestEvaluate_AnonymousFailsClosed(t *testing.T) {
	handler, st := newTestServer(t)
	testutil.SeedFlags(context.Background(), t, st, []store.CreateParams{{
		Key:     "gated",
		Enabled: true,
		Rollout: testutil.RolloutOf(100),
	}})

	// Explicit null and absent user_id both mean anonymous.
	for _, body := range []string{
		`{"key":"gated","user_id":null}`,
		`{"key":"gated"}`,
	} {
		if result := evaluate(t, handler, body); result.Matched {
			t.Errorf("anonymous evaluation matched a gated flag: body %s", body)
		}
	}
}

func TestEvaluate_EmptyStringIdentifier(t *testing.T) {
	handler, st := newTestServer(t)
	testutil.SeedFlags(context.Background(), t, st, []store.CreateParams{{
		Key:      "new-ui",
		Enabled:  true,
		Variants: map[string]uint32{"A": 1, "B": 1},
	}})

	// "" is a real identifier: it hashes, and here lands on A.
	result := evaluate(t, handler, `{"key":"new-ui","user_id":""}`)
	if !result.Matched || result.Variant != "A" {
		t.Errorf("got %+v, want matched variant A", result)
	}

	// Anonymous callers match but get no variant under the default policy.
	result = evaluate(t, handler, `{"key":"new-ui"}`)
	if !result.Matched || result.Variant != "" {
		t.Errorf("got %+v, want matched with no variant", result)
	}
}

func TestEvaluate_DisabledFlag(t *testing.T) {
	handler, st := newTestServer(t)
	testutil.SeedFlags(context.Background(), t, st, []store.CreateParams{{
		Key:      "off",
		Enabled:  false,
		Variants: map[string]uint32{"A": 1},
	}})

	if result := evaluate(t, handler, `{"key":"off","user_id":"user-7"}`); result.Matched {
		t.Errorf("disabled flag matched: %+v", result)
	}
}

func TestEvaluate_UnknownFlag(t *testing.T) {
	handler, _ := newTestServer(t)
	rr := (&testutil.HTTPRequest{
		Method: "POST",
		Path:   "/v1/evaluate",
		Body:   `{"key":"missing","user_id":"u"}`,
	}).Do(t, handler)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404\nbody: %s", rr.Code, rr.Body)
	}
	if errResp := decodeError(t, rr.Body.Bytes()); errResp.Code != ErrCodeNotFound {
		t.Errorf("error code = %q, want %q", errResp.Code, ErrCodeNotFound)
	}
}

func TestEvaluate_MissingKey(t *testing.T) {
	handler, _ := newTestServer(t)
	for _, body := range []string{`{}`, `{"key":"  "}`, `{"user_id":"u"}`} {
		rr := (&testutil.HTTPRequest{Method: "POST", Path: "/v1/evaluate", Body: body}).Do(t, handler)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status for %s = %d, want 400", body, rr.Code)
			continue
		}
		if errResp := decodeError(t, rr.Body.Bytes()); errResp.Code != ErrCodeMissingField {
			t.Errorf("error code for %s = %q, want %q", body, errResp.Code, ErrCodeMissingField)
		}
	}
}

func TestEvaluate_AnonymousVariantFirstPolicy(t *testing.T) {
	st := store.NewMemoryStore()
	srv := NewServer(st, evaluation.New(evaluation.AnonymousVariantFirst), Options{
		AdminAPIKey: testAdminKey,
		Logger:      zerolog.Nop(),
	})
	handler := srv.Router()
	testutil.SeedFlags(context.Background(), t, st, []store.CreateParams{{
		Key:      "promo",
		Enabled:  true,
		Variants: map[string]uint32{"A": 1, "B": 3},
	}})

	result := evaluate(t, handler, `{"key":"promo"}`)
	if !result.Matched || result.Variant != "A" {
		t.Errorf("got %+v, want matched variant A under first policy", result)
	}
}
