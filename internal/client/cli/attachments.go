package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/assettrack/internal/netx"
)

// Attach uploads a local file to the asset: register it, PUT the bytes to
// the presigned URL, then confirm the upload.
func (a *App) Attach(ctx context.Context, args []string) error {
	id, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Path to file", a.out)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))

	up, err := a.api.CreateAttachment(ctx, id, filepath.Base(path), contentType)
	if err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, a.api.HTTPClient(), up.UploadURL, up.Attachment.ContentType, f); err != nil {
		return err
	}

	if _, err := a.api.MarkUploaded(ctx, id, up.Attachment.ID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s as attachment %d\n", up.Attachment.FileName, up.Attachment.ID)
	return nil
}

func (a *App) Files(ctx context.Context, args []string) error {
	id, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}

	list, err := a.api.ListAttachments(ctx, id)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No attachments")
		return nil
	}
	for _, at := range list {
		fmt.Fprintf(a.out, "%d  %s  %s  %s\n", at.ID, at.FileName, at.ContentType, at.UploadStatus)
	}
	return nil
}

// Download saves an attachment into the current directory under its
// original file name.
func (a *App) Download(ctx context.Context, args []string) error {
	assetID, err := GetID(a.reader, args, "Asset id", a.out)
	if err != nil {
		return err
	}
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	id, err := GetID(a.reader, rest, "Attachment id", a.out)
	if err != nil {
		return err
	}

	dl, err := a.api.GetAttachment(ctx, assetID, id)
	if err != nil {
		return err
	}

	name := filepath.Base(dl.Attachment.FileName)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := netx.DownloadFromPresignedURL(ctx, a.api.HTTPClient(), dl.DownloadURL, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", name, n)
	return nil
}
