package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/assettrack/internal/client/api"
)

func (a *App) List(ctx context.Context) error {
	assets, err := a.api.ListAssets(ctx)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		fmt.Fprintln(a.out, "No assets")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSTATUS\tLOCATION\tPURCHASED")
	for _, as := range assets {
		purchased := ""
		if as.PurchaseDate != nil {
			purchased = as.PurchaseDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", as.ID, as.Name, as.Category, as.Status, as.Location, purchased)
	}
	return tw.Flush()
}

func (a *App) Add(ctx context.Context) error {
	var in api.NewAsset
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Name", &in.Name},
		{"Category", &in.Category},
		{"Purchase date (YYYY-MM-DD, optional)", &in.PurchaseDate},
		{"Status (empty for Healthy)", &in.Status},
		{"Location", &in.Location},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	asset, err := a.api.CreateAsset(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created asset %d\n", asset.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}
	if err := a.api.DeleteAsset(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted asset %d\n", id)
	return nil
}

func (a *App) SetStatus(ctx context.Context, args []string) error {
	id, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "New status", a.out)
	if err != nil {
		return err
	}

	asset, err := a.api.UpdateAssetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Asset %d is now %s\n", asset.ID, asset.Status)
	return nil
}

func (a *App) AddMaintenance(ctx context.Context, args []string) error {
	id, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}

	var in api.NewMaintenanceLog
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Service date (YYYY-MM-DD)", &in.ServiceDate},
		{"Technician", &in.TechnicianName},
		{"Description", &in.Description},
		{"Cost", &in.Cost},
		{"New asset status (optional)", &in.NewStatus},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	l, err := a.api.AddMaintenance(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged maintenance %d for asset %d\n", l.ID, id)
	return nil
}

func (a *App) Logs(ctx context.Context, args []string) error {
	id, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}

	logs, err := a.api.ListMaintenance(ctx, id)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Fprintln(a.out, "No maintenance records")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTECHNICIAN\tCOST\tDESCRIPTION")
	for _, l := range logs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.ServiceDate.Format("2006-01-02"), l.TechnicianName, l.Cost, l.Description)
	}
	return tw.Flush()
}
