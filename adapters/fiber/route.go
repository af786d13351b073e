package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/wanderauth/core"
	"github.com/lborres/wanderauth/pkg/crypto"
	"github.com/lborres/wanderauth/services"
)

// DeviceCookie names the cookie carrying the caller's device id.
const DeviceCookie = "ww_device"

type Adapter struct {
	app       *fiber.App
	registry  *services.EndpointRegistry
	deviceIDs crypto.IDGenerator
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{
		app:       app,
		registry:  services.NewEndpointRegistry(),
		deviceIDs: crypto.NewNanoID(),
	}
}

func (a *Adapter) RegisterRoutes(devices core.DeviceProvider, basePath string) error {
	api := a.app.Group(basePath)
	withDevice := a.requireDevice(devices)

	for _, ep := range a.registry.Endpoints() {
		handler, needsDevice, err := handlerFor(ep.Metadata.OperationID)
		if err != nil {
			return err
		}
		if needsDevice {
			api.Add([]string{ep.Method}, ep.Path, withDevice, handler)
			continue
		}
		api.Add([]string{ep.Method}, ep.Path, handler)
	}

	return nil
}

// handlerFor binds an operation ID to its handler and reports whether the
// handler needs the caller's store.
func handlerFor(operationID string) (fiber.Handler, bool, error) {
	switch operationID {
	case core.OpRegister:
		return handleRegister, true, nil
	case core.OpSignInWithPassword:
		return handleSignIn, true, nil
	case core.OpSignInWithProvider:
		return handleSignInWithProvider, true, nil
	case core.OpSignOut:
		return handleSignOut, true, nil
	case core.OpGetSession:
		return handleGetSession, true, nil
	case core.OpGetInitials:
		return handleGetInitials, false, nil
	default:
		return nil, false, fmt.Errorf("no handler for operation %q", operationID)
	}
}
