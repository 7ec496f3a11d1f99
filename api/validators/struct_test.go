package validators

import (
	"testing"

	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/stretchr/testify/require"
)

type sampleQuery struct {
	Count int     `query:"count" validate:"min=1,max=100"`
	Tags  []int64 `query:"tags" validate:"dive,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sampleQuery{Count: 3, Tags: []int64{1}}))

	err := ValidateStruct(sampleQuery{Count: 300})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "must be at most 100", details["count"])

	err = ValidateStruct(sampleQuery{Count: 1, Tags: []int64{0}})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	details = appErr.Details().(map[string]string)
	require.Equal(t, "must be greater than 0", details["tags[0]"])
}
