package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/trackkar/trackkar-cli/internal/client/models"
)

// GPS handles the tracker device workflow: checking a tracker ID, verifying
// a device end to end, and applying for new trackers.
func (a *App) GPS(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: gps check <id> | gps verify <id> | gps apply")
		return nil
	}

	switch args[0] {
	case "check":
		if len(args) < 2 {
			printlnFn("Usage: gps check <id>")
			return nil
		}
		return a.gpsCheck(ctx, args[1])
	case "verify":
		if len(args) < 2 {
			printlnFn("Usage: gps verify <id>")
			return nil
		}
		return a.gpsVerify(ctx, args[1])
	case "apply":
		return a.gpsApply(ctx)
	default:
		printlnFn("Unknown gps command:", args[0])
		return nil
	}
}

func (a *App) gpsCheck(ctx context.Context, gpsID string) error {
	validation, err := a.client.ValidateGPS(ctx, gpsID)
	if err != nil {
		return err
	}
	if validation.Valid {
		fmt.Println("GPS ID is valid.")
	} else {
		fmt.Println("GPS ID rejected:", validation.Message)
	}
	return nil
}

func (a *App) gpsVerify(ctx context.Context, gpsID string) error {
	if a.navigate("/gps-verify") != "/gps-verify" {
		return nil
	}

	plate, err := getSimpleText(a.reader, "Vehicle plate number", os.Stdout)
	if err != nil {
		return err
	}
	if plate == "" {
		return fmt.Errorf("plate number is required")
	}

	verification, err := a.client.VerifyGPSDevice(ctx, gpsID, plate)
	if err != nil {
		return err
	}
	if !verification.Verified {
		fmt.Println("Device not verified:", verification.Message)
		return nil
	}

	if err := a.state.SetLastVerifiedGPSID(ctx, gpsID); err != nil {
		a.log.Warn(ctx, "failed to persist verified gps id", "error", err)
	}
	fmt.Println("Device verified:", verification.Message)
	return nil
}

func (a *App) gpsApply(ctx context.Context) error {
	if a.navigate("/get-gps") != "/get-gps" {
		return nil
	}

	name, err := getSimpleText(a.reader, "Full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone", os.Stdout)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.reader, "Address", os.Stdout)
	if err != nil {
		return err
	}
	count, err := GetOptionalText(a.reader, "Number of vehicles", "1", os.Stdout)
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(count); err != nil || n < 1 {
		return fmt.Errorf("invalid vehicle count %q", count)
	}

	if name == "" || email == "" || phone == "" || address == "" {
		return fmt.Errorf("all fields are required")
	}

	if err := a.client.SubmitGPSApplication(ctx, models.GPSApplication{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Address:      address,
		VehicleCount: count,
	}); err != nil {
		return err
	}

	fmt.Println("Application submitted. We will contact you shortly.")
	return nil
}
