package localcommand

import (
	"reflect"
	"testing"
)

func TestNewFactory(t *testing.T) {
	factory, err := NewFactory("sh", []string{"-l"}, &Options{CloseSignal: 15, CloseTimeout: 321})
	if err != nil {
		t.Fatalf("NewFactory() returned error: %v", err)
	}
	if factory.command != "sh" {
		t.Errorf("factory.command = %v, expected %v", factory.command, "sh")
	}
	if !reflect.DeepEqual(factory.argv, []string{"-l"}) {
		t.Errorf("factory.argv = %v, expected %v", factory.argv, []string{"-l"})
	}
	if !reflect.DeepEqual(factory.options, &Options{CloseSignal: 15, CloseTimeout: 321}) {
		t.Errorf("factory.options = %v, expected %v", factory.options, &Options{CloseSignal: 15, CloseTimeout: 321})
	}
	if !reflect.DeepEqual(factory.Command(), []string{"sh", "-l"}) {
		t.Errorf("factory.Command() = %v", factory.Command())
	}
}

func TestNewFactoryRejectsEmptyCommand(t *testing.T) {
	if _, err := NewFactory("", nil, &Options{}); err == nil {
		t.Error("expected an error for an empty command")
	}
}

func TestSizeDefaults(t *testing.T) {
	tests := []struct {
		name     string
		in       Size
		expected Size
	}{
		{name: "both zero", in: Size{}, expected: Size{Cols: 80, Rows: 24}},
		{name: "zero cols", in: Size{Rows: 50}, expected: Size{Cols: 80, Rows: 50}},
		{name: "zero rows", in: Size{Cols: 120}, expected: Size{Cols: 120, Rows: 24}},
		{name: "explicit", in: Size{Cols: 100, Rows: 40}, expected: Size{Cols: 100, Rows: 40}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.orDefault(); got != tc.expected {
				t.Errorf("got %+v, expected %+v", got, tc.expected)
			}
		})
	}
}
