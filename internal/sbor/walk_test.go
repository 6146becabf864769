package sbor

import (
	"bytes"
	"testing"
)

func TestRoundTripIdentity(t *testing.T) {
	v := Struct(
		U64(42),
		Str("hello"),
		Value{Type: TOption, Some: func() *Value { b := Bool(true); return &b }()},
		Bytes([]byte{1, 2, 3}),
		BucketValue(7),
		ReferenceValue(9),
	)
	data := Encode(v)

	out, err := Walk(data, Identity)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if !bytes.Equal(data, out) {
		t.Fatalf("round trip mismatch:\n in  = %x\n out = %x", data, out)
	}
}

type recordingClassifier struct {
	buckets    []uint64
	references []uint64
}

func (r *recordingClassifier) Bucket(id uint64) (uint64, error) {
	r.buckets = append(r.buckets, id)
	return id, nil
}

func (r *recordingClassifier) Reference(id uint64) (uint64, error) {
	r.references = append(r.references, id)
	return id, nil
}

func TestWalkVisitsNestedCustomLeaves(t *testing.T) {
	v := Struct(
		Value{Type: TVec, ElemType: TStruct, Elems: []Value{
			Struct(BucketValue(1)),
			Struct(BucketValue(2), ReferenceValue(3)),
		}},
	)
	data := Encode(v)

	rc := &recordingClassifier{}
	if _, err := Walk(data, rc); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(rc.buckets) != 2 || rc.buckets[0] != 1 || rc.buckets[1] != 2 {
		t.Fatalf("unexpected buckets visited: %v", rc.buckets)
	}
	if len(rc.references) != 1 || rc.references[0] != 3 {
		t.Fatalf("unexpected references visited: %v", rc.references)
	}
}

type rejectingClassifier struct{}

func (rejectingClassifier) Bucket(uint64) (uint64, error) {
	return 0, errRejected
}
func (rejectingClassifier) Reference(uint64) (uint64, error) {
	return 0, errRejected
}

var errRejected = &rejectError{}

type rejectError struct{}

func (*rejectError) Error() string { return "movement not allowed" }

func TestWalkRejectsBucketInState(t *testing.T) {
	v := Struct(U64(1), BucketValue(5))
	data := Encode(v)

	if _, err := Walk(data, rejectingClassifier{}); err == nil {
		t.Fatalf("expected rejection error")
	}
}

func TestWalkDeepTupleDoesNotOverflowStack(t *testing.T) {
	const depth = 20000
	v := Value{Type: TTuple, Tuple: []Value{U8(1)}}
	for i := 0; i < depth; i++ {
		v = Value{Type: TTuple, Tuple: []Value{v}}
	}
	data := Encode(v)

	if _, err := Walk(data, Identity); err != nil {
		t.Fatalf("deep walk failed: %v", err)
	}
}
