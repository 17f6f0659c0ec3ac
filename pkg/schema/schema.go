package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

// SchemaIdentifier resolves the registry id of a schema text under a subject.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, avroSchemaText string) (int, error)
}

type schemaCreator interface {
	CreateSchema(ctx context.Context, subject string, s sr.Schema) (sr.SubjectSchema, error)
}

// Registrar registers schemas in the schema registry.
// Registering an already known schema returns its existing id.
type Registrar struct {
	cl schemaCreator
}

func NewRegistrar(cl schemaCreator) Registrar {
	if cl == nil {
		panic("schema registry client is nil") // develop mistake
	}
	return Registrar{cl}
}

func (r Registrar) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "Registrar.DetermineID"

	if subject == "" {
		return 0, fmt.Errorf("%s: %w", op, errors.New("subject is empty string"))
	}

	ss, err := r.cl.CreateSchema(ctx, subject, sr.Schema{
		Schema: avroSchemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}
