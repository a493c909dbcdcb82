package reviews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStore struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]models.Review
}

func (m *memStore) Insert(_ context.Context, r models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[r.ID] = r
	return nil
}

func (m *memStore) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.reviews[id]; ok {
			delete(m.reviews, id)
			n++
		}
	}
	return n, nil
}

// fakeTours knows one tour; vanish makes AttachReview fail as if the tour was
// deleted after the existence check.
type fakeTours struct {
	id       primitive.ObjectID
	attached []primitive.ObjectID
	vanish   bool
}

func (f *fakeTours) Exists(_ context.Context, id primitive.ObjectID) error {
	if id != f.id {
		return utils.NotFound("Tour not found")
	}
	return nil
}

func (f *fakeTours) AttachReview(_ context.Context, tourID, reviewID primitive.ObjectID) error {
	if f.vanish || tourID != f.id {
		return utils.NotFound("Tour not found")
	}
	f.attached = append(f.attached, reviewID)
	return nil
}

type events struct{ names []string }

func (e *events) Emit(_ context.Context, name string, _ mq.Index) { e.names = append(e.names, name) }

func newTestService() (*Service, *memStore, *fakeTours, *events) {
	store := &memStore{reviews: map[primitive.ObjectID]models.Review{}}
	tours := &fakeTours{id: primitive.NewObjectID()}
	ev := &events{}
	svc := NewService(store, tours, ev)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, store, tours, ev
}

func TestSubmit(t *testing.T) {
	svc, store, tours, ev := newTestService()

	r, err := svc.Submit(context.Background(), tours.id.Hex(), "u1",
		models.ReviewInput{Username: " asha ", ReviewText: "Lovely", Rating: 5})
	if err != nil {
		t.Fatal(err)
	}
	if r.TourID != tours.id || r.Username != "asha" || r.Rating != 5 || r.UserID != "u1" {
		t.Fatalf("unexpected review %+v", r)
	}
	if len(tours.attached) != 1 || tours.attached[0] != r.ID {
		t.Fatalf("review not appended to tour: %v", tours.attached)
	}
	if _, ok := store.reviews[r.ID]; !ok {
		t.Fatal("review not stored")
	}
	if len(ev.names) != 1 || ev.names[0] != "review-added" {
		t.Fatalf("unexpected events %v", ev.names)
	}
}

func TestSubmitRejects(t *testing.T) {
	svc, store, tours, _ := newTestService()
	ctx := context.Background()
	valid := models.ReviewInput{Username: "asha", ReviewText: "ok", Rating: 4}

	cases := []struct {
		name   string
		tourID string
		in     models.ReviewInput
		kind   utils.Kind
	}{
		{"bad id", "nope", valid, utils.KindValidation},
		{"unknown tour", primitive.NewObjectID().Hex(), valid, utils.KindNotFound},
		{"rating too high", tours.id.Hex(), models.ReviewInput{Username: "a", ReviewText: "b", Rating: 6}, utils.KindValidation},
		{"rating zero", tours.id.Hex(), models.ReviewInput{Username: "a", ReviewText: "b"}, utils.KindValidation},
		{"fractional rating", tours.id.Hex(), models.ReviewInput{Username: "a", ReviewText: "b", Rating: 3.5}, utils.KindValidation},
		{"no username", tours.id.Hex(), models.ReviewInput{ReviewText: "b", Rating: 3}, utils.KindValidation},
		{"no text", tours.id.Hex(), models.ReviewInput{Username: "a", Rating: 3}, utils.KindValidation},
	}
	for _, tc := range cases {
		_, err := svc.Submit(ctx, tc.tourID, "", tc.in)
		if utils.KindOf(err) != tc.kind {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.kind, err)
		}
	}
	if len(store.reviews) != 0 {
		t.Fatalf("rejected submissions stored reviews: %d", len(store.reviews))
	}
}

func TestSubmitRemovesOrphanWhenTourVanishes(t *testing.T) {
	svc, store, tours, ev := newTestService()
	tours.vanish = true

	_, err := svc.Submit(context.Background(), tours.id.Hex(), "",
		models.ReviewInput{Username: "a", ReviewText: "b", Rating: 3})
	if !utils.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(store.reviews) != 0 {
		t.Fatal("orphan review left in store")
	}
	if len(ev.names) != 0 {
		t.Fatalf("no event expected, got %v", ev.names)
	}
}

func TestAddReviewOverHTTP(t *testing.T) {
	svc, _, tours, _ := newTestService()
	auth := middleware.NewAuth([]byte("s"))
	router := httprouter.New()
	router.POST("/review/:tourId", auth.OptionalAuth(NewHandler(svc).AddReview))

	post := func(path, body, token string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		var out map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid json %q", rec.Body.String())
		}
		return rec.Code, out
	}

	token, _ := auth.IssueToken("u9", "asha", nil, time.Hour)
	code, out := post("/review/"+tours.id.Hex(), `{"username":"asha","reviewText":"Great","rating":"5"}`, token)
	if code != http.StatusOK || out["message"] != "Review submitted" {
		t.Fatalf("submit: %d %v", code, out)
	}
	review := out["review"].(map[string]any)
	if review["rating"] != 5.0 || review["userId"] != "u9" {
		t.Fatalf("unexpected review %v", review)
	}

	if code, _ := post("/review/"+primitive.NewObjectID().Hex(), `{"username":"a","reviewText":"b","rating":2}`, ""); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code, _ := post("/review/"+tours.id.Hex(), `{"username":"a","reviewText":"b","rating":9}`, ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if code, _ := post("/review/"+tours.id.Hex(), `{`, ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", code)
	}
}

