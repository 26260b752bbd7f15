package web

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/racesql/internal/config"
	"github.com/JonMunkholm/racesql/internal/core"
	"github.com/JonMunkholm/racesql/internal/schema"
	"github.com/JonMunkholm/racesql/internal/storage"
	"github.com/JonMunkholm/racesql/internal/storage/postgres"
	"github.com/JonMunkholm/racesql/internal/storage/sqlite"
	"github.com/JonMunkholm/racesql/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead leaves room for form fields and part headers.
const multipartOverhead = 1 << 20

// VariantInfo is the JSON form of a registered variant.
type VariantInfo struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Output        string        `json:"output"`
	StageFilter   string        `json:"stage_filter,omitempty"`
	NullEmptyInts bool          `json:"null_empty_ints"`
	UsesExits     bool          `json:"uses_exits"`
	Sections      []SectionInfo `json:"sections"`
}

// SectionInfo describes one script section of a variant.
type SectionInfo struct {
	Kind    core.Kind `json:"kind"`
	Header  string    `json:"header"`
	Table   string    `json:"table"`
	Columns []string  `json:"columns"`
}

// ExecutionResponse is returned by the verify and apply endpoints.
type ExecutionResponse struct {
	RunID     string          `json:"run_id"`
	Variant   string          `json:"variant"`
	Checksum  string          `json:"checksum"`
	Conflicts int             `json:"conflicts"`
	Report    *storage.Report `json:"report"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var cards []templates.VariantCard
	for _, v := range core.All() {
		card := templates.VariantCard{
			Name:        v.Name,
			Description: v.Description,
			Output:      v.Output,
			UsesExits:   v.UsesExits(),
		}
		for _, sec := range v.Sections {
			card.Sections = append(card.Sections, sec.Header)
		}
		cards = append(cards, card)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Dashboard(cards).Render(r.Context(), w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"variants": core.VariantCount(),
		"database": s.db != nil,
		"limiter":  s.limiter.Status(),
	})
}

func (s *Server) handleLimiterStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.limiter.Status())
}

func (s *Server) handleListVariants(w http.ResponseWriter, r *http.Request) {
	all := core.All()
	out := make([]VariantInfo, 0, len(all))
	for _, v := range all {
		info := VariantInfo{
			Name:          v.Name,
			Description:   v.Description,
			Output:        v.Output,
			StageFilter:   v.StageFilter,
			NullEmptyInts: v.NullEmptyInts,
			UsesExits:     v.UsesExits(),
		}
		for _, sec := range v.Sections {
			info.Sections = append(info.Sections, SectionInfo{
				Kind: sec.Kind, Header: sec.Header, Table: sec.Table.Name, Columns: sec.Table.ColumnNames(),
			})
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDownloadTemplate returns an empty CSV with the expected header row.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")

	var specs []schema.FieldSpec
	switch file {
	case "results":
		specs = schema.ResultFieldSpecs
	case "exits":
		specs = schema.ExitFieldSpecs
	default:
		respondError(w, r, fmt.Errorf("unknown template %q", file), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, file))

	csvWriter := csv.NewWriter(w)
	csvWriter.Write(schema.Header(specs))
	csvWriter.Flush()
}

// handleConvert returns the generated script as a download.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	v, res, ok := s.convertRequest(w, r)
	if !ok {
		return
	}

	checksum := res.Script.Checksum()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, v.Output))
	w.Header().Set("ETag", `"`+checksum+`"`)
	w.Header().Set("X-Run-ID", res.RunID)
	w.Header().Set("X-Conflicts", fmt.Sprint(len(res.Conflicts)))

	if match := r.Header.Get("If-None-Match"); match == `"`+checksum+`"` {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Write(res.Script.Bytes())
}

// handlePreview validates the uploads and reports what a conversion would emit.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	v, ok := s.lookupVariant(w, r)
	if !ok {
		return
	}
	results, exits, opts, err := s.readInputs(w, r, v)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var resp *core.PreviewResponse
	err = s.withSlot(r.Context(), func(ctx context.Context) error {
		var err error
		resp, err = core.Preview(ctx, v, results, exits, opts)
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleVerify converts and dry-runs the script on in-memory SQLite.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	v, res, ok := s.convertRequest(w, r)
	if !ok {
		return
	}

	report, err := sqlite.Verify(r.Context(), v, res.Script)
	s.metrics.ObserveExecution("sqlite", err)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, executionResponse(res, report))
}

// handleApply converts and executes the script against the database.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, r, postgres.ErrNoDatabase, http.StatusServiceUnavailable)
		return
	}

	_, res, ok := s.convertRequest(w, r)
	if !ok {
		return
	}

	report, err := postgres.Apply(r.Context(), s.db, res.Script)
	s.metrics.ObserveExecution("postgres", err)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, executionResponse(res, report))
}

func executionResponse(res *core.Result, report *storage.Report) ExecutionResponse {
	return ExecutionResponse{
		RunID:     res.RunID,
		Variant:   res.Variant,
		Checksum:  res.Script.Checksum(),
		Conflicts: len(res.Conflicts),
		Report:    report,
	}
}

// convertRequest runs the shared lookup, upload and conversion steps. On
// failure the error response has been written and ok is false.
func (s *Server) convertRequest(w http.ResponseWriter, r *http.Request) (core.Variant, *core.Result, bool) {
	v, ok := s.lookupVariant(w, r)
	if !ok {
		return v, nil, false
	}
	results, exits, opts, err := s.readInputs(w, r, v)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return v, nil, false
	}

	var res *core.Result
	err = s.withSlot(r.Context(), func(ctx context.Context) error {
		in, err := core.LoadInput(results, exits)
		if err == nil {
			res, err = core.Convert(ctx, v, in, opts)
		}
		s.metrics.ObserveConversion(v.Name, res, err)
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return v, nil, false
	}
	return v, res, true
}

func (s *Server) lookupVariant(w http.ResponseWriter, r *http.Request) (core.Variant, bool) {
	v, err := core.Lookup(chi.URLParam(r, "variant"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return v, false
	}
	return v, true
}

// withSlot runs fn while holding a limiter slot.
func (s *Server) withSlot(ctx context.Context, fn func(context.Context) error) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	s.metrics.ConversionStarted()
	defer func() {
		s.metrics.ConversionFinished()
		s.limiter.Release()
	}()
	return fn(ctx)
}

// readInputs parses the multipart form: a results file, an exits file when
// the variant emits exits, and optional conversion options.
func (s *Server) readInputs(w http.ResponseWriter, r *http.Request, v core.Variant) (results, exits []core.RawRow, opts core.Options, err error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, opts, fmt.Errorf("file too large: limit is %d bytes per file", maxSize)
		}
		return nil, nil, opts, fmt.Errorf("invalid csv: unreadable form: %w", err)
	}

	if opts, err = s.formOptions(r); err != nil {
		return nil, nil, opts, err
	}

	results, err = readFormFile(r, "results", maxSize)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, opts, errNoResultsFile
	}
	if err != nil {
		return nil, nil, opts, err
	}

	if !v.UsesExits() {
		return results, nil, opts, nil
	}
	exits, err = readFormFile(r, "exits", maxSize)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, opts, fmt.Errorf("variant %s requires an exits file", v.Name)
	}
	if err != nil {
		return nil, nil, opts, err
	}
	return results, exits, opts, nil
}

func readFormFile(r *http.Request, field string, maxSize int64) ([]core.RawRow, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, fmt.Errorf("file too large: %s is %d bytes, limit is %d", field, header.Size, maxSize)
	}
	rows, err := core.ReadRows(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return rows, nil
}

// formOptions reads conflict_policy and null_empty_ints, falling back to the
// server's conversion defaults.
func (s *Server) formOptions(r *http.Request) (core.Options, error) {
	var opts core.Options

	policy := r.FormValue("conflict_policy")
	if policy == "" {
		policy = s.cfg.Convert.ConflictPolicy
	}
	p, err := core.ParseConflictPolicy(policy)
	if err != nil {
		return opts, err
	}
	opts.ConflictPolicy = p

	opts.NullEmptyInts = s.cfg.Convert.NullEmptyIntsOverride()
	if v := r.FormValue("null_empty_ints"); v != "" {
		if opts.NullEmptyInts, err = config.ParseNullEmptyInts(v); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
