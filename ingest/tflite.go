// Package ingest builds a sourcenet.Network from an external model
// description. It is grounded on the teacher's
// pkg/core/marshaller/tflite/model.go NewModel(modelData []byte, ...)
// pattern: load model bytes into a tflite.Model/Interpreter, validate,
// and keep the backing buffer alive for the interpreter's lifetime.
//
// The teacher's wrapper targets inference (it hands decoded tensors to
// the TFLite runtime); this package repurposes the same loading idiom to
// harvest the network's external contract — the input/output tensors'
// shapes and quantization — and materializes it as a sourcenet.Network
// of bare Input/Output operations. go-tflite's public API wraps the C
// interpreter and does not expose the flatbuffer operator graph, so
// recovering the interior operation DAG (the convolutions, pooling, etc.
// that package lower actually rewrites) is out of reach of this loader;
// callers that need a populated interior graph build it directly with
// the sourcenet builder API (see testing.SingleInputNetwork), and FromTFLite
// is the on-ramp for interop with externally-trained models whose
// interior has already been lowered or is supplied separately.
package ingest

import (
	"fmt"

	tflite "github.com/mattn/go-tflite"

	"github.com/ethosn/npulower/quant"
	"github.com/ethosn/npulower/sourcenet"
)

// FromTFLite loads modelData as a TFLite flatbuffer and returns a
// sourcenet.Network whose Input/Output operations mirror the model's
// external tensors.
func FromTFLite(modelData []byte) (*sourcenet.Network, error) {
	if len(modelData) == 0 {
		return nil, fmt.Errorf("ingest.FromTFLite: empty model data")
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, fmt.Errorf("ingest.FromTFLite: failed to parse TFLite model")
	}
	defer model.Delete()

	options := tflite.NewInterpreterOptions()
	if options == nil {
		return nil, fmt.Errorf("ingest.FromTFLite: failed to create interpreter options")
	}
	defer options.Delete()

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, fmt.Errorf("ingest.FromTFLite: failed to create interpreter")
	}
	defer interpreter.Delete()

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return nil, fmt.Errorf("ingest.FromTFLite: failed to allocate tensors: %v", status)
	}

	net := sourcenet.NewNetwork()

	for i := 0; i < interpreter.GetInputTensorCount(); i++ {
		info, err := tensorInfoFromTFLite(interpreter.GetInputTensor(i))
		if err != nil {
			return nil, fmt.Errorf("ingest.FromTFLite: input %d: %w", i, err)
		}
		op := net.AddOperation(sourcenet.OpInput, 1)
		op.InputTensorInfo = info
		op.Outputs[0].Info = info
	}

	for i := 0; i < interpreter.GetOutputTensorCount(); i++ {
		info, err := tensorInfoFromTFLite(interpreter.GetOutputTensor(i))
		if err != nil {
			return nil, fmt.Errorf("ingest.FromTFLite: output %d: %w", i, err)
		}
		producer := net.Operation(sourcenet.OpID(i))
		op := net.AddOperation(sourcenet.OpOutput, 0)
		op.OutputTensorInfo = info
		if producer != nil {
			if err := net.Connect(op, producer, 0); err != nil {
				return nil, fmt.Errorf("ingest.FromTFLite: output %d: %w", i, err)
			}
		}
	}

	return net, nil
}

// tensorInfoFromTFLite converts one TFLite tensor's shape and
// quantization parameters into a sourcenet.TensorInfo. TFLite tensors
// are NHWC by convention for the image-classification-shaped models this
// loader targets; tensors of other rank are rejected since TensorInfo is
// fixed at 4 dimensions (spec.md §3).
func tensorInfoFromTFLite(t *tflite.Tensor) (sourcenet.TensorInfo, error) {
	if t == nil {
		return sourcenet.TensorInfo{}, fmt.Errorf("nil tensor")
	}
	if t.NumDims() != 4 {
		return sourcenet.TensorInfo{}, fmt.Errorf("tensor %q has %d dims, want 4 (NHWC)", t.Name(), t.NumDims())
	}

	var dims sourcenet.Dims4
	for i := 0; i < 4; i++ {
		dims[i] = t.Dim(i)
	}

	qp := t.QuantizationParams()
	q, err := quant.New(int32(qp.ZeroPoint), float32(qp.Scale))
	if err != nil {
		return sourcenet.TensorInfo{}, fmt.Errorf("tensor %q: %w", t.Name(), err)
	}

	return sourcenet.NewTensorInfo(dims, quant.UInt8Quantized, sourcenet.NHWC, q)
}
