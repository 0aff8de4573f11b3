package metalava

import "slices"

// SchemaFormat identifies the layout of a SchemaDocument.
type SchemaFormat string

const (
	// SchemaFormatDescriptors is a []FieldDescriptor catalogue.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI is an OpenAPI 3 document as map[string]any.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument is the output of a SchemaGenerator.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// FieldDescriptor describes one setting. Default is rendered the same way as
// Snapshot values and is nil when HasDefault is false.
type FieldDescriptor struct {
	Key        Key
	Kind       Kind
	Doc        string
	Choices    []string
	Collection bool
	Default    any
	HasDefault bool
}

// SchemaGenerator renders the setting catalogue.
type SchemaGenerator interface {
	Generate(fields []FieldDescriptor) (SchemaDocument, error)
}

// WithSchemaGenerator replaces the generator used by Schema.
func WithSchemaGenerator(generator SchemaGenerator) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.schemaGenerator = generator
	}
}

// DefaultSchemaGenerator returns the descriptor catalogue generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(fields []FieldDescriptor) (SchemaDocument, error) {
	if fields == nil {
		fields = []FieldDescriptor{}
	}
	return SchemaDocument{Format: SchemaFormatDescriptors, Document: fields}, nil
}

// Fields describes every setting with the defaults that apply to this scope.
// Only the filename default differs between scopes.
func (s *Scope) Fields() []FieldDescriptor {
	root := s.chain().Weakest()
	fields := make([]FieldDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		field := FieldDescriptor{
			Key:        d.key,
			Kind:       d.kind,
			Doc:        d.doc,
			Choices:    slices.Clone(d.choices),
			Collection: d.kind == KindStringSet,
		}
		if value, ok := d.def(root); ok {
			field.Default = renderValue(value)
			field.HasDefault = true
		}
		fields = append(fields, field)
	}
	return fields
}

// Schema renders Fields with the configured generator.
func (s *Scope) Schema() (SchemaDocument, error) {
	generator := s.cfg.schemaGenerator
	if generator == nil {
		generator = DefaultSchemaGenerator()
	}
	return generator.Generate(s.Fields())
}
