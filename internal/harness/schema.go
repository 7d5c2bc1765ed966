package harness

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// planSchemaTemplate is completed with the registered phase names.
const planSchemaTemplate = `
#Phase: %s

#Plan: {
	name:         string & =~"^[a-z][a-z0-9_-]*$"
	version:      string
	description?: string
	phases: [#Phase, ...#Phase]
	tolerances?: {
		float32?: number & >0
		float64?: number & >0
	}
}
`

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

// PlanSchema returns the CUE source plans are validated against.
func PlanSchema() string {
	names := PhaseNames()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return fmt.Sprintf(planSchemaTemplate, strings.Join(quoted, " | "))
}

func compileSchema() {
	schemaCtx = cuecontext.New()
	v := schemaCtx.CompileString(PlanSchema(), cue.Filename("plan.cue"))
	if err := v.Err(); err != nil {
		schemaErr = fmt.Errorf("compile plan schema: %w", err)
		return
	}
	schemaDef = v.LookupPath(cue.ParsePath("#Plan"))
	if err := schemaDef.Err(); err != nil {
		schemaErr = fmt.Errorf("plan schema: %w", err)
	}
}

// validateSchema unifies the plan document with #Plan.
func validateSchema(p *Plan) error {
	schemaOnce.Do(compileSchema)
	if schemaErr != nil {
		return schemaErr
	}

	// cue.Context is not safe for concurrent use.
	schemaMu.Lock()
	defer schemaMu.Unlock()

	doc := schemaCtx.Encode(p.document())
	if err := doc.Err(); err != nil {
		return &PlanError{Plan: p.Name, Message: firstCUEError(err)}
	}
	if err := schemaDef.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &PlanError{Plan: p.Name, Field: "schema", Message: firstCUEError(err)}
	}
	return nil
}

var schemaMu sync.Mutex

func firstCUEError(err error) string {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	return errs[0].Error()
}
