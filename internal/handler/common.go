package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/model"
	"github.com/mdkhajajamaludin/wellness/internal/queue"
)

// Resource names used in routes, log fields and published events.
const (
	ResourceHealthcare = "healthcare"
	ResourceFoodDiet   = "food-diet"
	ResourceNotes      = "notes"
)

// EventPublisher publishes record events.  A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.RecordEvent) error
}

// RecordHandler serves the healthcare, food diet and notes endpoints.
type RecordHandler struct {
	Healthcare HealthcareStore
	FoodDiet   FoodDietStore
	Notes      NoteStore
	Events     EventPublisher
	Log        zerolog.Logger
}

// NewRecordHandler constructs a RecordHandler and panics if any store is nil.
// events may be nil.
func NewRecordHandler(hc HealthcareStore, fd FoodDietStore, notes NoteStore, events EventPublisher, log zerolog.Logger) *RecordHandler {
	if hc == nil || fd == nil || notes == nil {
		panic("nil store passed to NewRecordHandler")
	}
	return &RecordHandler{Healthcare: hc, FoodDiet: fd, Notes: notes, Events: events, Log: log}
}

const publishTimeout = 5 * time.Second

// emit publishes a record event off the request path.
func (h *RecordHandler) emit(typ, resource string, id int64, userID string) {
	if h.Events == nil {
		return
	}
	ev := queue.NewRecordEvent(typ, resource, id, userID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := h.Events.Publish(ctx, ev); err != nil {
			h.Log.Warn().Err(err).Str("event_id", ev.EventID).Msg("record event not published")
		}
	}()
}

// logger returns the handler logger tagged with the request id.
func (h *RecordHandler) logger(c echo.Context) *zerolog.Logger {
	l := h.Log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
	return &l
}

// storeFailure logs err and writes the generic 500 body for the operation.
func (h *RecordHandler) storeFailure(c echo.Context, resource, op string, err error, msg string) error {
	h.logger(c).Error().Err(err).Str("resource", resource).Str("op", op).Msg("store error")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// parseID reads the numeric :id path parameter.
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseListFilter reads ?user_id=&limit=&offset=.  Without limit every
// matching row is returned.
func parseListFilter(c echo.Context) (model.ListFilter, error) {
	f := model.ListFilter{UserID: c.QueryParam("user_id")}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	if s := c.QueryParam("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return f, errors.New("offset must be a non-negative integer")
		}
		if f.Limit == 0 && n > 0 {
			return f, errors.New("offset requires limit")
		}
		f.Offset = n
	}
	return f, nil
}

// bindJSON decodes the request body into v.  Only the body is read; query
// and path parameters never populate body fields.
func bindJSON(c echo.Context, v any) error {
	return json.NewDecoder(c.Request().Body).Decode(v)
}

func required(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// textValue accepts a JSON string or number, so {"value": 72} and
// {"value": "72"} are stored alike in a text column.
type textValue string

func (t *textValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = textValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("expected string or number")
	}
	*t = textValue(n.String())
	return nil
}

// numberValue accepts a JSON number or a numeric string ("250", "5.5") as
// form inputs send them.  null and "" leave it unset.
type numberValue struct {
	n   json.Number
	set bool
}

func (v *numberValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*v = numberValue{}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n json.Number
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		n = json.Number(s)
	} else if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("expected number or numeric string")
	}
	v.n, v.set = n, true
	return nil
}

// Int returns the value as an integer; "250.0" is accepted, "250.5" is not.
func (v numberValue) Int() (*int64, error) {
	if !v.set {
		return nil, nil
	}
	if i, err := v.n.Int64(); err == nil {
		return &i, nil
	}
	f, err := v.n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return nil, fmt.Errorf("%s is not an integer", v.n)
	}
	i := int64(f)
	return &i, nil
}

// Decimal returns the value rounded to places decimals, the way a
// DECIMAL(p,places) column stores it.
func (v numberValue) Decimal(places int) (*float64, error) {
	if !v.set {
		return nil, nil
	}
	f, err := v.n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("%s is not a number", v.n)
	}
	scale := math.Pow10(places)
	f = math.Round(f*scale) / scale
	return &f, nil
}
