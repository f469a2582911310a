package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type fakeObjects struct {
	puts      map[string][]byte
	pages     []*s3.ListObjectsV2Output
	listCalls int
	deleteErr error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.listCalls]
	f.listCalls++
	return page, nil
}

func TestS3_UploadAndPublicURL(t *testing.T) {
	fake := &fakeObjects{}
	store := newS3(fake, "https://proj.supabase.co/storage/v1/object/public/")

	if err := store.Upload(context.Background(), "audio", "abc.mp3", strings.NewReader("mp3"), "audio/mpeg"); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if string(fake.puts["audio/abc.mp3"]) != "mp3" {
		t.Fatalf("object not stored: %v", fake.puts)
	}

	got := store.PublicURL("video", "clips/my clip.mp4")
	want := "https://proj.supabase.co/storage/v1/object/public/video/clips/my%20clip.mp4"
	if got != want {
		t.Fatalf("PublicURL = %q; want %q", got, want)
	}
}

func TestS3_ListFollowsPages(t *testing.T) {
	fake := &fakeObjects{pages: []*s3.ListObjectsV2Output{
		{
			Contents:              []s3types.Object{{Key: aws.String("a.mp4")}, {Key: aws.String("folder/")}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents:    []s3types.Object{{Key: aws.String("b.mp4"), Size: aws.Int64(42)}},
			IsTruncated: aws.Bool(false),
		},
	}}
	store := newS3(fake, "https://cdn.example.com")

	assets, err := store.List(context.Background(), "video")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d: %+v", len(assets), assets)
	}
	if assets[0].Key != "a.mp4" || assets[1].Key != "b.mp4" || assets[1].Size != 42 {
		t.Fatalf("unexpected assets: %+v", assets)
	}
	if assets[1].URL != "https://cdn.example.com/video/b.mp4" {
		t.Fatalf("unexpected URL: %s", assets[1].URL)
	}
}

func TestS3_DeleteIsIdempotent(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"ok", nil, false},
		{"missing key", &smithy.GenericAPIError{Code: "NoSuchKey"}, false},
		{"not found", &smithy.GenericAPIError{Code: "NotFound"}, false},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, true},
		{"transport", errors.New("connection reset"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := newS3(&fakeObjects{deleteErr: c.err}, "https://cdn.example.com")
			for i := 0; i < 2; i++ {
				err := store.Delete(context.Background(), "audio", "x.mp3")
				if (err != nil) != c.wantErr {
					t.Fatalf("Delete attempt %d error = %v; wantErr %v", i+1, err, c.wantErr)
				}
			}
		})
	}
}
