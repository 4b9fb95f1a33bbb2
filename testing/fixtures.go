// Package testing provides shared network-building helpers for the rest
// of the module's test suites, grounded on the teacher's
// gradient_test_helper.go convention of factoring repeated test-network
// construction into one helper package instead of duplicating it per
// _test.go file.
package testing

import (
	"github.com/ethosn/npulower/quant"
	"github.com/ethosn/npulower/sourcenet"
)

// DefaultQuant returns an arbitrary, valid quantization descriptor for
// tests that don't care about its specific values.
func DefaultQuant() quant.Info {
	q, err := quant.New(0, 1.0)
	if err != nil {
		panic(err)
	}
	return q
}

// TensorInfo builds a NHWC uint8-quantized TensorInfo with DefaultQuant.
func TensorInfo(n, h, w, ch int) sourcenet.TensorInfo {
	info, err := sourcenet.NewTensorInfo(sourcenet.Dims4{n, h, w, ch}, quant.UInt8Quantized, sourcenet.NHWC, DefaultQuant())
	if err != nil {
		panic(err)
	}
	return info
}

// SingleInputNetwork returns a Network containing exactly one Input
// operation with the given shape, plus the network and that operation
// for the caller to extend.
func SingleInputNetwork(n, h, w, ch int) (*sourcenet.Network, *sourcenet.Operation) {
	net := sourcenet.NewNetwork()
	info := TensorInfo(n, h, w, ch)
	in := net.AddOperation(sourcenet.OpInput, 1)
	in.InputTensorInfo = info
	in.Outputs[0].Info = info
	return net, in
}

// ConstantBytes returns a deterministic byte slice of the given length,
// useful as placeholder weights/bias payloads.
func ConstantBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251)
	}
	return out
}
