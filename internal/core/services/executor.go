package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.Executor = (*Session)(nil)

// Session binds a set of stacked procedures to one answer map.
// Mutations are synchronous except photo appends, whose commits are
// serialised under the session mutex so concurrently resolving file
// reads never clobber each other.
type Session struct {
	mu sync.Mutex

	procedures []domain.Procedure
	fields     map[string]map[string]domain.Field
	values     domain.AnswerMap
	readonly   bool
	onChange   func(domain.AnswerMap)
}

// NewSession creates an execution session. values may be nil for a
// fresh execution; onChange may be nil when no caller persistence is
// wanted (tests, readonly views).
func NewSession(procedures []domain.Procedure, values domain.AnswerMap, readonly bool, onChange func(domain.AnswerMap)) *Session {
	fields := make(map[string]map[string]domain.Field, len(procedures))
	for _, p := range procedures {
		idx := make(map[string]domain.Field, len(p.Fields))
		for _, f := range p.Fields {
			idx[f.ID] = f
		}
		fields[p.ID] = idx
	}
	return &Session{
		procedures: procedures,
		fields:     fields,
		values:     values.Clone(),
		readonly:   readonly,
		onChange:   onChange,
	}
}

// Procedures returns the stacked procedures in render order.
func (s *Session) Procedures() []domain.Procedure {
	out := make([]domain.Procedure, len(s.procedures))
	for i, p := range s.procedures {
		out[i] = p.Clone()
	}
	return out
}

// Values returns a copy of the current answer map.
func (s *Session) Values() domain.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Value returns the raw answer for one field, nil when unset.
func (s *Session) Value(procedureID, fieldID string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values.Get(procedureID, fieldID)
	if list, ok := v.([]string); ok {
		return append([]string(nil), list...)
	}
	return v
}

// Readonly reports whether mutation is disabled.
func (s *Session) Readonly() bool {
	return s.readonly
}

// Groups partitions a procedure's fields into render groups: an
// explicit section field opens a named collapsible group; a
// section-break flag or the start of the list opens a flat run.
func (s *Session) Groups(procedureID string) []driving.FieldGroup {
	var proc *domain.Procedure
	for i := range s.procedures {
		if s.procedures[i].ID == procedureID {
			proc = &s.procedures[i]
			break
		}
	}
	if proc == nil {
		return nil
	}

	var groups []driving.FieldGroup
	for _, f := range proc.Fields {
		switch {
		case f.Type == domain.FieldSection:
			title := f.Label
			if title == "" {
				title = f.Placeholder
			}
			groups = append(groups, driving.FieldGroup{
				Title:       title,
				SectionID:   f.ID,
				Collapsible: true,
			})
		case f.SectionBreak || len(groups) == 0:
			groups = append(groups, driving.FieldGroup{Fields: []domain.Field{f.Clone()}})
		default:
			last := &groups[len(groups)-1]
			last.Fields = append(last.Fields, f.Clone())
		}
	}
	return groups
}

// SetString binds a text answer.
func (s *Session) SetString(procedureID, fieldID, value string) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueString)
	if err != nil {
		return err
	}
	if f.Type != domain.FieldText {
		return fmt.Errorf("%w: %s does not take free text", domain.ErrInvalidInput, f.Type)
	}
	s.set(procedureID, fieldID, value)
	return nil
}

// SetNumber binds a numeric answer from raw input. Non-numeric input
// coerces to 0 rather than erroring.
func (s *Session) SetNumber(procedureID, fieldID, raw string) error {
	if _, err := s.bindable(procedureID, fieldID, domain.ValueNumber); err != nil {
		return err
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		n = 0
	}
	s.set(procedureID, fieldID, n)
	return nil
}

// SetDate stores the canonical ISO-8601 form of the date. Unparseable
// non-empty input is ignored; empty input clears the answer.
func (s *Session) SetDate(procedureID, fieldID, iso string) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueString)
	if err != nil {
		return err
	}
	if f.Type != domain.FieldDate {
		return fmt.Errorf("%w: %s is not a date field", domain.ErrInvalidInput, f.Type)
	}
	if iso == "" {
		s.set(procedureID, fieldID, "")
		return nil
	}
	t, perr := time.Parse("2006-01-02", iso)
	if perr != nil {
		logger.Debug("ignoring unparseable date %q for field %s", iso, fieldID)
		return nil
	}
	s.set(procedureID, fieldID, t.Format("2006-01-02"))
	return nil
}

// ToggleCheckbox flips a boolean answer.
func (s *Session) ToggleCheckbox(procedureID, fieldID string) error {
	if _, err := s.bindable(procedureID, fieldID, domain.ValueBool); err != nil {
		return err
	}
	s.mu.Lock()
	cur := domain.BoolValue(s.values.Get(procedureID, fieldID))
	s.values.Set(procedureID, fieldID, !cur)
	s.mu.Unlock()
	s.emit()
	return nil
}

// ToggleChecklistOption toggles an option's presence in the answer list.
func (s *Session) ToggleChecklistOption(procedureID, fieldID, option string) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueStringList)
	if err != nil {
		return err
	}
	if f.Type != domain.FieldChecklist {
		return fmt.Errorf("%w: %s is not a checklist", domain.ErrInvalidInput, f.Type)
	}

	s.mu.Lock()
	cur := domain.ListValue(s.values.Get(procedureID, fieldID))
	next := make([]string, 0, len(cur)+1)
	removed := false
	for _, o := range cur {
		if o == option {
			removed = true
			continue
		}
		next = append(next, o)
	}
	if !removed {
		next = append(next, option)
	}
	s.values.Set(procedureID, fieldID, next)
	s.mu.Unlock()
	s.emit()
	return nil
}

// SelectChoice sets an exclusive selection. Selecting the current
// choice again is a no-op, not a toggle-off.
func (s *Session) SelectChoice(procedureID, fieldID, option string) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueString)
	if err != nil {
		return err
	}

	var allowed []string
	switch f.Type {
	case domain.FieldMultipleChoice:
		allowed = f.Options
	case domain.FieldYesNoNA:
		allowed = domain.YesNoNAOptions()
	default:
		return fmt.Errorf("%w: %s is not a choice field", domain.ErrInvalidInput, f.Type)
	}
	if !contains(allowed, option) {
		return fmt.Errorf("%w: option %q not offered", domain.ErrInvalidInput, option)
	}

	s.mu.Lock()
	if domain.StringValue(s.values.Get(procedureID, fieldID)) == option {
		s.mu.Unlock()
		return nil
	}
	s.values.Set(procedureID, fieldID, option)
	s.mu.Unlock()
	s.emit()
	return nil
}

// SelectInspection sets the Pass/Flag/Fail verdict. Reselecting the
// current verdict is a no-op.
func (s *Session) SelectInspection(procedureID, fieldID string, result domain.InspectionResult) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueString)
	if err != nil {
		return err
	}
	if f.Type != domain.FieldInspectionCheck {
		return fmt.Errorf("%w: %s is not an inspection check", domain.ErrInvalidInput, f.Type)
	}
	valid := false
	for _, r := range domain.AllInspectionResults() {
		if r == result {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: verdict %q", domain.ErrInvalidInput, result)
	}

	s.mu.Lock()
	if domain.StringValue(s.values.Get(procedureID, fieldID)) == string(result) {
		s.mu.Unlock()
		return nil
	}
	s.values.Set(procedureID, fieldID, string(result))
	s.mu.Unlock()
	s.emit()
	return nil
}

// AppendPhotos reads every source concurrently and appends each
// successful payload to the photo list as its read resolves. Appends
// are serialised under the session mutex, so a batch of N successful
// reads always yields N new entries whatever the resolution order.
// Failed reads are skipped; earlier appends from the batch stay.
func (s *Session) AppendPhotos(ctx context.Context, procedureID, fieldID string, sources []driving.PhotoSource) (int, error) {
	f, err := s.bindable(procedureID, fieldID, domain.ValueStringList)
	if err != nil {
		return 0, err
	}
	if f.Type != domain.FieldPhoto {
		return 0, fmt.Errorf("%w: %s is not a photo field", domain.ErrInvalidInput, f.Type)
	}

	var (
		wg      sync.WaitGroup
		countMu sync.Mutex
		count   int
	)

	wg.Add(len(sources))
	for _, src := range sources {
		go func(src driving.PhotoSource) {
			defer wg.Done()
			payload, rerr := src.Read(ctx)
			if rerr != nil {
				logger.Warn("skipping photo %q: %v", src.Name, rerr)
				return
			}
			s.mu.Lock()
			cur := domain.ListValue(s.values.Get(procedureID, fieldID))
			s.values.Set(procedureID, fieldID, append(cur, payload))
			s.mu.Unlock()
			s.emit()
			countMu.Lock()
			count++
			countMu.Unlock()
		}(src)
	}
	wg.Wait()
	return count, nil
}

// RemovePhoto splices one photo out of the list by index.
func (s *Session) RemovePhoto(procedureID, fieldID string, index int) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueStringList)
	if err != nil {
		return err
	}
	if f.Type != domain.FieldPhoto {
		return fmt.Errorf("%w: %s is not a photo field", domain.ErrInvalidInput, f.Type)
	}

	s.mu.Lock()
	cur := domain.ListValue(s.values.Get(procedureID, fieldID))
	if index < 0 || index >= len(cur) {
		s.mu.Unlock()
		return domain.ErrIndexOutOfRange
	}
	next := make([]string, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	s.values.Set(procedureID, fieldID, next)
	s.mu.Unlock()
	s.emit()
	return nil
}

// CommitSignature stores a signature raster encoding. The signature
// modal calls this only on explicit confirm; cancel never reaches here.
func (s *Session) CommitSignature(procedureID, fieldID, encoding string) error {
	f, err := s.bindable(procedureID, fieldID, domain.ValueString)
	if err != nil {
		return err
	}
	if f.Type != domain.FieldSignature {
		return fmt.Errorf("%w: %s is not a signature field", domain.ErrInvalidInput, f.Type)
	}
	s.set(procedureID, fieldID, encoding)
	return nil
}

// bindable resolves a field and rejects mutations that cannot apply:
// readonly sessions, unknown fields, display-only kinds and kind/shape
// mismatches.
func (s *Session) bindable(procedureID, fieldID string, kind domain.ValueKind) (domain.Field, error) {
	if s.readonly {
		return domain.Field{}, domain.ErrReadonly
	}
	byID, ok := s.fields[procedureID]
	if !ok {
		return domain.Field{}, domain.ErrNotFound
	}
	f, ok := byID[fieldID]
	if !ok {
		return domain.Field{}, domain.ErrFieldNotFound
	}
	if f.Type.IsDisplayOnly() {
		return domain.Field{}, domain.ErrDisplayOnly
	}
	if !f.Type.IsValid() {
		logger.Warn("unknown field type %q on field %s", f.Type, fieldID)
		return domain.Field{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, f.Type)
	}
	if f.Type.ValueKind() != kind {
		return domain.Field{}, fmt.Errorf("%w: field %s binds a different value shape", domain.ErrInvalidInput, fieldID)
	}
	return f, nil
}

func (s *Session) set(procedureID, fieldID string, value any) {
	s.mu.Lock()
	s.values.Set(procedureID, fieldID, value)
	s.mu.Unlock()
	s.emit()
}

// emit hands the full updated map to the caller. No batching, no
// debounce: one change, one emission.
func (s *Session) emit() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Values())
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Ensure ExecutionService implements the interface.
var _ driving.ExecutorService = (*ExecutionService)(nil)

// ExecutionService opens execution sessions over stored procedures and
// persists the answer map on every change.
type ExecutionService struct {
	procedures driven.ProcedureStore
	executions driven.ExecutionStore
}

// NewExecutionService creates an execution service.
func NewExecutionService(procedures driven.ProcedureStore, executions driven.ExecutionStore) *ExecutionService {
	return &ExecutionService{procedures: procedures, executions: executions}
}

// Start opens a session for a work order, resuming any previously
// captured answers.
func (s *ExecutionService) Start(ctx context.Context, workOrderID string, procedureIDs []string) (driving.Executor, error) {
	return s.open(ctx, workOrderID, procedureIDs, false)
}

// StartReadonly opens a view-only session over captured answers.
func (s *ExecutionService) StartReadonly(ctx context.Context, workOrderID string, procedureIDs []string) (driving.Executor, error) {
	return s.open(ctx, workOrderID, procedureIDs, true)
}

func (s *ExecutionService) open(ctx context.Context, workOrderID string, procedureIDs []string, readonly bool) (driving.Executor, error) {
	if workOrderID == "" {
		workOrderID = domain.NewExecutionID()
	}

	procedures := make([]domain.Procedure, 0, len(procedureIDs))
	for _, id := range procedureIDs {
		p, err := s.procedures.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading procedure %s: %w", id, err)
		}
		procedures = append(procedures, *p)
	}

	values := domain.AnswerMap{}
	if existing, err := s.executions.Get(ctx, workOrderID); err == nil {
		values = existing.Answers
	}

	var onChange func(domain.AnswerMap)
	if !readonly {
		onChange = func(m domain.AnswerMap) {
			e := domain.Execution{
				WorkOrderID: workOrderID,
				Answers:     m,
				UpdatedAt:   time.Now().UTC(),
			}
			if err := s.executions.Save(context.Background(), e); err != nil {
				logger.Warn("persisting answers for %s: %v", workOrderID, err)
			}
		}
	}

	return NewSession(procedures, values, readonly, onChange), nil
}
