package apiclient

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi/users.yaml
var usersContract []byte

// Operation is one route declared by the contract.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// Contract wraps the OpenAPI description of the users resource and validates
// decoded payloads against its schemas.
type Contract struct {
	doc *openapi3.T
}

var (
	defaultContractOnce sync.Once
	defaultContract     *Contract
	defaultContractErr  error
)

// DefaultContract returns the embedded users contract, loaded once.
func DefaultContract() (*Contract, error) {
	defaultContractOnce.Do(func() {
		defaultContract, defaultContractErr = LoadContract(context.Background(), usersContract)
	})
	return defaultContract, defaultContractErr
}

// ContractDocument returns the raw embedded contract.
func ContractDocument() []byte {
	return append([]byte(nil), usersContract...)
}

// LoadContract parses and validates an OpenAPI document.
func LoadContract(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("apiclient: contract payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("apiclient: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apiclient: validate contract: %w", err)
	}
	for _, name := range []string{"User", "UserList"} {
		if _, err := lookupSchema(doc, name); err != nil {
			return nil, err
		}
	}
	return &Contract{doc: doc}, nil
}

// Operations lists the declared routes sorted by path then method.
func (c *Contract) Operations() []Operation {
	if c == nil || c.doc.Paths == nil {
		return nil
	}
	var out []Operation
	for path, item := range c.doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out = append(out, Operation{ID: op.OperationID, Method: strings.ToUpper(method), Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// UserProperties lists the attribute names declared on the User schema.
func (c *Contract) UserProperties() []string {
	schema, err := lookupSchema(c.doc, "User")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateUser checks a single user payload.
func (c *Contract) ValidateUser(raw []byte) error {
	return c.validate("User", raw)
}

// ValidateUserList checks a user collection payload.
func (c *Contract) ValidateUserList(raw []byte) error {
	return c.validate("UserList", raw)
}

func (c *Contract) validate(name string, raw []byte) error {
	schema, err := lookupSchema(c.doc, name)
	if err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%w: %s: %w", errDecode, name, err)
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrContractViolation, name, err)
	}
	return nil
}

func lookupSchema(doc *openapi3.T, name string) (*openapi3.Schema, error) {
	if doc == nil || doc.Components == nil {
		return nil, fmt.Errorf("apiclient: contract has no components")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("apiclient: contract schema %q not found", name)
	}
	return ref.Value, nil
}
