package memory

import (
	"strconv"

	"github.com/google/uuid"
)

func newID() string { return uuid.New().String() }

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
