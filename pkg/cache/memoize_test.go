package cache

import (
	"testing"

	"github.com/pkg/errors"

	. "github.com/onsi/gomega"
)

func TestMemoizeHitMissContract(t *testing.T) {
	RegisterTestingT(t)
	m := newTestManager(t)

	calls := 0
	generate := m.Memoize("generate", func(args []any, _ map[string]any) (any, error) {
		calls++
		return "portrait of " + args[0].(string), nil
	})

	v, fromCache, err := generate.Call("a viking")
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())
	Expect(v).To(Equal("portrait of a viking"))
	Expect(calls).To(Equal(1))

	v, fromCache, err = generate.Call("a viking")
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeTrue())
	Expect(v).To(Equal("portrait of a viking"))
	Expect(calls).To(Equal(1))

	_, fromCache, err = generate.Call("a farmer")
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())
	Expect(calls).To(Equal(2))
}

func TestMemoizeRecordShape(t *testing.T) {
	RegisterTestingT(t)
	m := newTestManager(t)

	generate := m.Memoize("generate", func(args []any, _ map[string]any) (any, error) {
		return args[0], nil
	})

	rec, err := generate.Record("hello")
	Expect(err).To(BeNil())
	Expect(rec.FromCache).To(BeFalse())
	Expect(rec.Result).To(Equal("hello"))

	rec, err = generate.Record("hello")
	Expect(err).To(BeNil())
	Expect(rec.FromCache).To(BeTrue())
	Expect(rec.Result).To(Equal("hello"))
}

func TestMemoizeNamedArguments(t *testing.T) {
	RegisterTestingT(t)
	m := newTestManager(t)

	calls := 0
	generate := m.Memoize("generate", func(_ []any, named map[string]any) (any, error) {
		calls++
		return named["seed"], nil
	})

	_, fromCache, err := generate.CallNamed(nil, map[string]any{"seed": 7})
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())

	_, fromCache, err = generate.CallNamed(nil, map[string]any{"seed": 7})
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeTrue())

	_, fromCache, err = generate.CallNamed(nil, map[string]any{"seed": 8})
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())
	Expect(calls).To(Equal(2))
}

type fakeClient struct {
	label string
}

func TestMemoizeReceiverExclusion(t *testing.T) {
	RegisterTestingT(t)
	m := newTestManager(t)

	calls := 0
	method := m.Memoize("method", func(args []any, _ map[string]any) (any, error) {
		calls++
		return args[1], nil
	}, WithReceiverArg())

	// Two distinct receivers with the same remaining arguments share one
	// fingerprint.
	_, fromCache, err := method.Call(&fakeClient{label: "one"}, 5)
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())

	_, fromCache, err = method.Call(&fakeClient{label: "two"}, 5)
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeTrue())
	Expect(calls).To(Equal(1))

	// A primitive first argument is not treated as a receiver.
	_, fromCache, err = method.Call("not-a-receiver", 5)
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())
}

func TestMemoizeWithoutOptionKeepsFirstArg(t *testing.T) {
	RegisterTestingT(t)
	m := newTestManager(t)

	calls := 0
	fn := m.Memoize("fn", func(args []any, _ map[string]any) (any, error) {
		calls++
		return nil, nil
	})

	_, _, err := fn.Call(&fakeClient{label: "one"}, 5)
	Expect(err).To(BeNil())
	_, _, err = fn.Call(&fakeClient{label: "two"}, 5)
	Expect(err).To(BeNil())
	Expect(calls).To(Equal(2))
}

func TestMemoizeErrorsAreNotCached(t *testing.T) {
	RegisterTestingT(t)
	m := newTestManager(t)

	calls := 0
	failing := m.Memoize("failing", func(_ []any, _ map[string]any) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream unavailable")
		}
		return "recovered", nil
	})

	_, _, err := failing.Call("x")
	Expect(err).ToNot(BeNil())

	v, fromCache, err := failing.Call("x")
	Expect(err).To(BeNil())
	Expect(fromCache).To(BeFalse())
	Expect(v).To(Equal("recovered"))
	Expect(calls).To(Equal(2))
}
