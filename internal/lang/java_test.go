package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Java plugin:
// - Split imports into module and symbol, including wildcard imports
// - Extract classes with superclass and implemented interfaces
// - Map interfaces and enums to class-kind entities
// - Record annotations as decorators with arguments stripped
// - Extract methods and constructors with typed parameters
// - Strip generics from base type names
// - Collect this-qualified callee names per method

const javaSample = `import java.util.List;
import java.util.*;

@Service
@Deprecated(since = "2.0")
public class OrderService extends BaseService<Order> implements Validator, Closeable {

    public OrderService(List<Order> seed) {
        this.reset(seed);
    }

    @Override
    public boolean validate(Order order, boolean strict) {
        return true;
    }
}

interface Validator extends AutoCloseable {
    boolean validate(Order order, boolean strict);
}

enum Status {
    OPEN, CLOSED
}
`

func TestJavaPlugin_Imports(t *testing.T) {
	t.Parallel()

	plugin := NewJavaPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/OrderService.java", []byte(javaSample))
	require.NoError(t, err)

	require.Len(t, result.Imports, 2)
	assert.Equal(t, ImportRef{Kind: ImportSymbol, Module: "java.util", Symbol: "List", Line: 1}, result.Imports[0])
	assert.Equal(t, ImportRef{Kind: ImportModule, Module: "java.util", Line: 2}, result.Imports[1])
}

func TestJavaPlugin_Class(t *testing.T) {
	t.Parallel()

	plugin := NewJavaPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/OrderService.java", []byte(javaSample))
	require.NoError(t, err)

	assert.Equal(t, "java", result.Language)
	assert.Equal(t, "OrderService", result.Module)

	service := findEntity(t, result, "OrderService.OrderService")
	assert.Equal(t, EntityClass, service.Kind)
	assert.Equal(t, []string{"BaseService", "Validator", "Closeable"}, service.Bases)
	assert.Equal(t, []string{"Service", "Deprecated"}, service.Decorators)
}

func TestJavaPlugin_Methods(t *testing.T) {
	t.Parallel()

	plugin := NewJavaPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/OrderService.java", []byte(javaSample))
	require.NoError(t, err)

	ctor := findEntity(t, result, "OrderService.OrderService.OrderService")
	assert.Equal(t, EntityMethod, ctor.Kind)
	require.Len(t, ctor.Params, 1)
	assert.Equal(t, "seed", ctor.Params[0].Name)
	assert.Equal(t, []string{"self.reset"}, ctor.Calls)

	validate := findEntity(t, result, "OrderService.OrderService.validate")
	assert.Equal(t, []string{"Override"}, validate.Decorators)
	assert.Equal(t, "boolean", validate.ReturnType)
	require.Len(t, validate.Params, 2)
	assert.Equal(t, Param{Name: "order", Annotation: "Order"}, validate.Params[0])
	assert.Equal(t, Param{Name: "strict", Annotation: "boolean"}, validate.Params[1])
}

func TestJavaPlugin_InterfaceAndEnum(t *testing.T) {
	t.Parallel()

	plugin := NewJavaPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/OrderService.java", []byte(javaSample))
	require.NoError(t, err)

	validator := findEntity(t, result, "OrderService.Validator")
	assert.Equal(t, EntityClass, validator.Kind)
	assert.Equal(t, []string{"AutoCloseable"}, validator.Bases)

	status := findEntity(t, result, "OrderService.Status")
	assert.Equal(t, EntityClass, status.Kind)
	assert.Empty(t, status.Bases)
}
