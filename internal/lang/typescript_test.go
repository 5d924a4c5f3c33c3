package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the TypeScript plugin:
// - Extract classes (exported and not) with extends/implements heritage
// - Map interfaces to class-kind entities
// - Extract class and method decorators
// - Extract method parameters with type annotations
// - Extract named, aliased, namespace, default, and side-effect imports
// - Extract top-level functions with return types
// - Collect this-qualified callee names per method

const typeScriptSample = `import { Base, Helper as H } from "./models";
import * as fs from "fs";
import React from "react";
import "./polyfill";

@Component
export class Widget extends Base implements Renderable {
    @bind
    render(target: Element): void {
    }

    resize(width: number, height: number): void {
        this.render(document.body);
    }
}

export interface Renderable extends Disposable {
    render(target: Element): void;
}

export function create(name: string): Widget {
    return new Widget();
}
`

func TestTypeScriptPlugin_Imports(t *testing.T) {
	t.Parallel()

	plugin := NewTypeScriptPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/widget.ts", []byte(typeScriptSample))
	require.NoError(t, err)

	require.Len(t, result.Imports, 5)

	assert.Equal(t, ImportRef{Kind: ImportSymbol, Module: "./models", Symbol: "Base", Line: 1}, result.Imports[0])
	assert.Equal(t, ImportRef{Kind: ImportSymbol, Module: "./models", Symbol: "Helper", Alias: "H", Line: 1}, result.Imports[1])
	assert.Equal(t, ImportRef{Kind: ImportModule, Module: "fs", Alias: "fs", Line: 2}, result.Imports[2])
	assert.Equal(t, ImportRef{Kind: ImportModule, Module: "react", Alias: "React", Line: 3}, result.Imports[3])
	assert.Equal(t, ImportRef{Kind: ImportModule, Module: "./polyfill", Line: 4}, result.Imports[4])
}

func TestTypeScriptPlugin_Class(t *testing.T) {
	t.Parallel()

	plugin := NewTypeScriptPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/widget.ts", []byte(typeScriptSample))
	require.NoError(t, err)

	assert.Equal(t, "typescript", result.Language)
	assert.Equal(t, "widget", result.Module)

	widget := findEntity(t, result, "widget.Widget")
	assert.Equal(t, EntityClass, widget.Kind)
	assert.Equal(t, []string{"Base", "Renderable"}, widget.Bases)
	assert.Equal(t, []string{"Component"}, widget.Decorators)

	render := findEntity(t, result, "widget.Widget.render")
	assert.Equal(t, EntityMethod, render.Kind)
	assert.Equal(t, []string{"bind"}, render.Decorators)
	require.Len(t, render.Params, 1)
	assert.Equal(t, Param{Name: "target", Annotation: "Element"}, render.Params[0])
	assert.Equal(t, "void", render.ReturnType)

	resize := findEntity(t, result, "widget.Widget.resize")
	require.Len(t, resize.Params, 2)
	assert.Equal(t, "width", resize.Params[0].Name)
	assert.Equal(t, "number", resize.Params[1].Annotation)
	assert.Equal(t, []string{"self.render"}, resize.Calls)
}

func TestTypeScriptPlugin_InterfaceAsClass(t *testing.T) {
	t.Parallel()

	plugin := NewTypeScriptPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/widget.ts", []byte(typeScriptSample))
	require.NoError(t, err)

	renderable := findEntity(t, result, "widget.Renderable")
	assert.Equal(t, EntityClass, renderable.Kind)
	assert.Equal(t, []string{"Disposable"}, renderable.Bases)
}

func TestTypeScriptPlugin_Function(t *testing.T) {
	t.Parallel()

	plugin := NewTypeScriptPlugin()
	result, err := plugin.ParseFile(context.Background(), "src/widget.ts", []byte(typeScriptSample))
	require.NoError(t, err)

	create := findEntity(t, result, "widget.create")
	assert.Equal(t, EntityFunction, create.Kind)
	assert.Equal(t, "Widget", create.ReturnType)
	require.Len(t, create.Params, 1)
	assert.Equal(t, "string", create.Params[0].Annotation)
}
