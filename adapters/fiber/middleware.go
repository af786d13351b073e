package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lborres/wanderauth/core"
)

const localsStore = "wanderauth.store"

const deviceCookieMaxAge = 365 * 24 * 60 * 60

// requireDevice resolves the caller's store from the device cookie, issuing
// a new device id when the cookie is absent or malformed, and waits for the
// store to finish loading before handing over to downstream handlers.
func (a *Adapter) requireDevice(devices core.DeviceProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		deviceID := c.Cookies(DeviceCookie)
		if !validDeviceID(deviceID) {
			id, err := a.deviceIDs.NewID()
			if err != nil {
				return handleAuthError(c, err)
			}
			deviceID = id
			c.Cookie(&fiber.Cookie{
				Name:     DeviceCookie,
				Value:    deviceID,
				Path:     "/",
				MaxAge:   deviceCookieMaxAge,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		ctx := c.Context()
		store, err := devices.Device(ctx, deviceID)
		if err != nil {
			return handleAuthError(c, err)
		}

		select {
		case <-store.Ready():
		case <-ctx.Done():
			return handleAuthError(c, ctx.Err())
		}

		c.Locals(localsStore, store)
		return c.Next()
	}
}

func storeFrom(c fiber.Ctx) core.AuthHandler {
	store, _ := c.Locals(localsStore).(core.AuthHandler)
	return store
}

func validDeviceID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_', ch == '-':
		default:
			return false
		}
	}
	return true
}
