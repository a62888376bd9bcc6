package lead

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betavietvn/leadtrack/internal/config"
	"github.com/betavietvn/leadtrack/internal/gtm"
)

func validForm() Form {
	return Form{
		Name:     "Nguyễn Văn An",
		Phone:    "0915010800",
		Address:  "Hà Nội",
		Area:     "300m2",
		Message:  "Tư vấn thiết kế biệt thự",
		Source:   "betaviet.vn",
		FormType: "contact",
	}
}

func TestSubmit_HoneypotFakesSuccessWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	layer := gtm.NewDataLayer()
	s := NewSubmitter(srv.Client(), config.LeadConfig{Endpoint: srv.URL, SecurityToken: "tok"}, layer)

	form := validForm()
	form.Honeypot = "filled by a bot"

	result, err := s.Submit(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, successMessage, result.Message)
	assert.Equal(t, int32(0), calls.Load())
	// No conversion is reported for a trapped submission.
	assert.Empty(t, layer.Entries())
}

func TestSubmit_RejectsInvalidPhoneLocally(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	s := NewSubmitter(srv.Client(), config.LeadConfig{Endpoint: srv.URL}, gtm.NewDataLayer())

	form := validForm()
	form.Phone = "123"

	result, err := s.Submit(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSubmit_RejectsMissingName(t *testing.T) {
	s := NewSubmitter(nil, config.LeadConfig{Endpoint: "http://localhost:0"}, gtm.NewDataLayer())

	form := validForm()
	form.Name = ""

	result, err := s.Submit(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
}

func TestSubmit_CORSAcceptedPushesConversion(t *testing.T) {
	var gotToken, gotPhone string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotToken = r.FormValue("securityToken")
		gotPhone = r.FormValue("phone")
		assert.NotEmpty(t, r.FormValue("timestamp"))
		assert.Equal(t, "contact", r.FormValue("formType"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Đã gửi thông tin thành công!"}`))
	}))
	defer srv.Close()

	layer := gtm.NewDataLayer()
	s := NewSubmitter(srv.Client(), config.LeadConfig{
		Endpoint:      srv.URL,
		SecurityToken: "betaviet_form_2024",
		CORSEnabled:   true,
	}, layer)

	result, err := s.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, "betaviet_form_2024", gotToken)
	assert.Equal(t, "0915010800", gotPhone)

	entries := layer.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, gtm.EventContactFormSubmit, entries[0]["event"])
	assert.Equal(t, "+84915010800", entries[0]["formPhone"])
}

func TestSubmit_CORSRejectedVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"Unauthorized access"}`))
	}))
	defer srv.Close()

	layer := gtm.NewDataLayer()
	s := NewSubmitter(srv.Client(), config.LeadConfig{Endpoint: srv.URL, CORSEnabled: true}, layer)

	result, err := s.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Empty(t, layer.Entries())
}

func TestSubmit_OpaqueModeReportsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The response body is never inspected in opaque mode.
		w.Write([]byte("ignored"))
	}))
	defer srv.Close()

	layer := gtm.NewDataLayer()
	s := NewSubmitter(srv.Client(), config.LeadConfig{Endpoint: srv.URL}, layer)

	result, err := s.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnknown, result.Outcome)
	// The conversion is reported optimistically, as the page cannot know.
	assert.Len(t, layer.Entries(), 1)
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewSubmitter(nil, config.LeadConfig{Endpoint: srv.URL}, gtm.NewDataLayer())

	result, err := s.Submit(context.Background(), validForm())

	assert.Error(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, errorMessage, result.Message)
}
