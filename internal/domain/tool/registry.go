package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/janhq/commerce-api/internal/domain/llm"
)

// Definition is a catalog entry as advertised to the model.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
	// Renderable tools turn successful results with data into client actions.
	Renderable bool `json:"renderable"`
}

type entry struct {
	def    Definition
	decode func(raw json.RawMessage, d Defaults) (any, error)
	handle func(ctx context.Context, x *Executor, scope Scope, args any) Result
}

// Registry is the tool catalog. Schema, validation and defaults of each tool all come from
// its argument struct, so they cannot drift apart.
type Registry struct {
	entries  map[string]*entry
	order    []string
	defaults Defaults
	validate *validator.Validate
	errs     []error
}

// NewRegistry builds the catalog of every tool the assistant offers.
func NewRegistry(defaults Defaults) *Registry {
	r := &Registry{
		entries:  make(map[string]*entry),
		defaults: defaults,
		validate: newValidator(),
	}
	registerCatalog(r)
	return r
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func register[T any, PT interface {
	*T
	arguments
}](r *Registry, name, description string, renderable bool, fn func(x *Executor, ctx context.Context, scope Scope, args PT) Result) {
	if _, dup := r.entries[name]; dup {
		r.errs = append(r.errs, fmt.Errorf("tool %s registered twice", name))
		return
	}
	schema, err := reflectSchema[T]()
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("tool %s: %w", name, err))
		return
	}

	r.entries[name] = &entry{
		def: Definition{
			Name:        name,
			Description: description,
			InputSchema: schema,
			Renderable:  renderable,
		},
		decode: func(raw json.RawMessage, d Defaults) (any, error) {
			return decodeArgs[T, PT](r.validate, raw, d)
		},
		handle: func(ctx context.Context, x *Executor, scope Scope, args any) Result {
			return fn(x, ctx, scope, args.(PT))
		},
	}
	r.order = append(r.order, name)
}

func reflectSchema[T any]() (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	schema := reflector.Reflect(new(T))
	schema.Version = ""
	schema.ID = ""

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}
	return data, nil
}

func decodeArgs[T any, PT interface {
	*T
	arguments
}](v *validator.Validate, raw json.RawMessage, d Defaults) (PT, error) {
	args := PT(new(T))

	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(args); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the arguments object")
	}

	args.applyDefaults(d)
	if err := v.Struct(args); err != nil {
		return nil, describeValidation(err)
	}
	if c, ok := any(args).(crossChecker); ok {
		if err := c.check(); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min", "gte":
			msg = "must be at least " + fe.Param()
		case "max", "lte":
			msg = "must be at most " + fe.Param()
		case "oneof":
			msg = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "email":
			msg = "must be a valid email address"
		default:
			msg = "failed " + fe.Tag() + " validation"
		}
		parts = append(parts, fe.Field()+" "+msg)
	}
	return errors.New(strings.Join(parts, "; "))
}

// Lookup returns the definition of a tool.
func (r *Registry) Lookup(name string) (Definition, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Definition{}, false
	}
	return e.def, true
}

// Definitions lists the catalog in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].def)
	}
	return defs
}

// ToolDefinitions returns the catalog in the shape sent to the model.
func (r *Registry) ToolDefinitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		d := r.entries[name].def
		defs = append(defs, llm.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		})
	}
	return defs
}

// Verify checks that the catalog registers exactly the expected tools, each once and each
// with a schema. It is run at startup.
func (r *Registry) Verify(expected []string) error {
	errs := append([]error(nil), r.errs...)

	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		if want[name] {
			errs = append(errs, fmt.Errorf("tool %s expected twice", name))
		}
		want[name] = true
		e, ok := r.entries[name]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("tool %s has no registered handler and schema", name))
		case len(e.def.InputSchema) == 0:
			errs = append(errs, fmt.Errorf("tool %s has an empty input schema", name))
		case strings.TrimSpace(e.def.Description) == "":
			errs = append(errs, fmt.Errorf("tool %s has no description", name))
		}
	}

	var extra []string
	for name := range r.entries {
		if !want[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		errs = append(errs, fmt.Errorf("tool %s is registered but not expected", name))
	}

	return errors.Join(errs...)
}

// ActionFor returns the client action for a result of tool name, if the tool renders one.
func (r *Registry) ActionFor(name string, result Result) (Action, bool) {
	e, ok := r.entries[name]
	if !ok || !e.def.Renderable || !result.Success || result.Error != "" || result.Data == nil {
		return Action{}, false
	}
	return Action{Type: name, Data: result.Data}, true
}
