package orchestration

import (
	"strings"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

func unhealthyProcessorsError(processorKeys []string) error {
	return (&domainerrors.Error{
		Code:    domainerrors.CodeValidationFailure,
		Message: "cannot start flow: unhealthy processors " + strings.Join(processorKeys, ", "),
	}).WithContext(map[string]interface{}{"processors": processorKeys})
}
