package anyval

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/go-anyval/go-anyval")

const (
	// shapeAttribute is the attribute key used to associate registry records with
	// the representation chosen for their type.
	shapeAttribute = "shape"
)

var (
	// registeredTypes counts the types classified by the registry. Its growth
	// flattens once a program has touched all its types; a steady climb hints at
	// types being minted at runtime (e.g. with reflect.StructOf).
	//
	// Each record is associated with the shapeAttribute.
	registeredTypes metric.Int64Counter
	// onDemandBoxes counts inlined values that had to be boxed to satisfy an
	// interface query or a call to Any.Interface.
	onDemandBoxes metric.Int64Counter
)

func init() {
	var err error
	registeredTypes, err = meter.Int64Counter(
		"anyval.registry.types",
		metric.WithDescription("The number of types classified by the registry."),
	)
	if err != nil {
		panic(fmt.Sprintf("anyval: failed to init 'anyval.registry.types' instrument: %v", err))
	}

	onDemandBoxes, err = meter.Int64Counter(
		"anyval.box.on_demand",
		metric.WithDescription("The number of inlined values boxed on demand."),
	)
	if err != nil {
		panic(fmt.Sprintf("anyval: failed to init 'anyval.box.on_demand' instrument: %v", err))
	}
}

// measureRegistration records a newly classified type under its shape.
func measureRegistration(s shape) {
	attrs := attribute.NewSet(attribute.String(shapeAttribute, s.String()))
	registeredTypes.Add(context.Background(), 1, metric.WithAttributeSet(attrs))
}

func measureBoxOnDemand() {
	onDemandBoxes.Add(context.Background(), 1)
}
