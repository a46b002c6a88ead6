package remote

// Pipeline step types.
const (
	StepExecute = "execute"
	StepClose   = "close"
)

// Pipeline result types.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// PipelinePath is appended to the configured base URL.
const PipelinePath = "/v2/pipeline"

// PipelineRequest is the body POSTed to the pipeline endpoint.
type PipelineRequest struct {
	Baton    *string         `json:"baton"`
	Requests []StreamRequest `json:"requests"`
}

// StreamRequest is one step of a pipeline. Stmt is set only for execute
// steps.
type StreamRequest struct {
	Type string     `json:"type"`
	Stmt *StmtBody `json:"stmt,omitempty"`
}

// StmtBody is a single SQL statement with positional arguments matching the
// "?" placeholders in SQL.
type StmtBody struct {
	SQL  string  `json:"sql"`
	Args []Value `json:"args,omitempty"`
}

// PipelineResponse holds one result per request step, in order.
type PipelineResponse struct {
	Baton   *string        `json:"baton"`
	BaseURL *string        `json:"base_url"`
	Results []StreamResult `json:"results"`
}

// StreamResult is either an ok result carrying a Response or an error result
// carrying an Error.
type StreamResult struct {
	Type     string          `json:"type"`
	Response *StreamResponse `json:"response,omitempty"`
	Error    *ErrorBody      `json:"error,omitempty"`
}

// StreamResponse wraps the execute result. Close steps carry no result.
type StreamResponse struct {
	Type   string  `json:"type"`
	Result *Result `json:"result,omitempty"`
}

// ErrorBody is the server-reported failure of a step.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Column describes one result column.
type Column struct {
	Name     string `json:"name"`
	DeclType string `json:"decltype,omitempty"`
}

// Result is the outcome of one execute step. LastInsertRowID is a string
// because row IDs may exceed the JSON safe-integer range.
type Result struct {
	Cols             []Column  `json:"cols"`
	Rows             [][]Value `json:"rows"`
	AffectedRowCount int64     `json:"affected_row_count"`
	LastInsertRowID  *string   `json:"last_insert_rowid"`
}

// Statement is a logical SQL statement and its parameters in placeholder
// order.
type Statement struct {
	SQL  string
	Args []any
}

// NewStatement builds a Statement.
func NewStatement(sql string, args ...any) Statement {
	return Statement{SQL: sql, Args: args}
}

// ColumnNames returns the result's column names in ordinal order.
func (r *Result) ColumnNames() []string {
	names := make([]string, len(r.Cols))
	for i, c := range r.Cols {
		names[i] = c.Name
	}
	return names
}

// InsertID returns the last inserted row ID. It fails when the server did
// not report one or reported a malformed value.
func (r *Result) InsertID() (int64, error) {
	if r == nil || r.LastInsertRowID == nil {
		return 0, ErrNoInsertID
	}
	v := Value{Type: TypeInteger, Value: quote(*r.LastInsertRowID)}
	id, err := v.ParseInt64()
	if err != nil {
		return 0, &ProtocolError{Reason: "malformed last_insert_rowid", Cause: err}
	}
	return id, nil
}

// RowsAffected returns the affected row count, treating a nil result as zero.
func (r *Result) RowsAffected() int64 {
	if r == nil {
		return 0
	}
	return r.AffectedRowCount
}

// buildPipeline turns statements into execute steps followed by a close step.
func buildPipeline(stmts []Statement) PipelineRequest {
	steps := make([]StreamRequest, 0, len(stmts)+1)
	for _, s := range stmts {
		steps = append(steps, StreamRequest{
			Type: StepExecute,
			Stmt: &StmtBody{SQL: s.SQL, Args: EncodeArgs(s.Args)},
		})
	}
	steps = append(steps, StreamRequest{Type: StepClose})
	return PipelineRequest{Requests: steps}
}
