package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
)

type pingQuery struct{ Name string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return "pong " + request.(*pingQuery).Name, nil
}

func TestMediator_SendDispatchesByType(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	resp, err := m.Send(context.Background(), &pingQuery{Name: "farm"})

	require.NoError(t, err)
	assert.Equal(t, "pong farm", resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, pingHandler{}))

	var trace []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.RegisterMiddleware(func(ctx context.Context, req mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name+">")
			resp, err := next(ctx, req)
			trace = append(trace, "<"+name)
			return resp, err
		})
	}

	_, err := m.Send(context.Background(), &pingQuery{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, trace)
}
