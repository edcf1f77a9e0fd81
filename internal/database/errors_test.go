package database

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestClassify_Constraint(t *testing.T) {
	err := Classify(gorm.ErrDuplicatedKey)
	if !errors.Is(err, ErrConstraint) {
		t.Errorf("duplicated key classified as %v, want ErrConstraint", err)
	}

	err = Classify(gorm.ErrForeignKeyViolated)
	if !errors.Is(err, ErrConstraint) {
		t.Errorf("FK violation classified as %v, want ErrConstraint", err)
	}
}

func TestClassify_Connectivity(t *testing.T) {
	for _, msg := range []string{
		"dial tcp 10.0.0.1:5432: connection refused",
		"read tcp: connection reset by peer",
		"failed to connect to `host=db`",
	} {
		err := Classify(errors.New(msg))
		if !errors.Is(err, ErrConnectivity) {
			t.Errorf("%q classified as %v, want ErrConnectivity", msg, err)
		}
	}
}

func TestClassify_QueryFallback(t *testing.T) {
	err := Classify(errors.New("near \"SELEC\": syntax error"))
	if !errors.Is(err, ErrQuery) {
		t.Errorf("syntax error classified as %v, want ErrQuery", err)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	once := Classify(errors.New("connection refused"))
	twice := Classify(once)
	if twice != once {
		t.Error("Classify should return already-classified errors unchanged")
	}
}

func TestClassify_RecordNotFoundPassesThrough(t *testing.T) {
	err := Classify(gorm.ErrRecordNotFound)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("record-not-found classified as %v", err)
	}
	if errors.Is(err, ErrQuery) {
		t.Error("record-not-found should not be classified as a query error")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Classify(errors.New("connection refused"))) {
		t.Error("connectivity errors should be retryable")
	}
	if IsRetryable(Classify(gorm.ErrDuplicatedKey)) {
		t.Error("constraint violations must never be retried")
	}
	if IsRetryable(Classify(errors.New("syntax error"))) {
		t.Error("query errors must never be retried")
	}
}
