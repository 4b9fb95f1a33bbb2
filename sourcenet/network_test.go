package sourcenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkConnect(t *testing.T) {
	net := NewNetwork()
	producer := net.AddOperation(OpConstant, 1)
	consumer := net.AddOperation(OpRelu, 1)

	require.NoError(t, net.Connect(consumer, producer, 0))

	require.Len(t, consumer.Inputs, 1)
	assert.Equal(t, producer.ID, consumer.Inputs[0].Key.ProducerID)
	assert.Len(t, producer.Outputs[0].Consumers(), 1)
	assert.Equal(t, consumer.ID, producer.Outputs[0].Consumers()[0])
}

func TestNetworkConnectUnknownOutput(t *testing.T) {
	net := NewNetwork()
	producer := net.AddOperation(OpConstant, 1)
	consumer := net.AddOperation(OpRelu, 1)

	err := net.Connect(consumer, producer, 5)
	require.Error(t, err)
}

func TestNetworkWalkOrder(t *testing.T) {
	net := NewNetwork()
	a := net.AddOperation(OpInput, 1)
	b := net.AddOperation(OpConstant, 1)

	var seen []OpID
	err := net.Walk(func(op *Operation) error {
		seen = append(seen, op.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []OpID{a.ID, b.ID}, seen)
}
