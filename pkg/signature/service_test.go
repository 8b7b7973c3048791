package signature

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
)

func TestSignatureRoundTrip(t *testing.T) {
	Convey("Given an approved stage", t, func() {
		svc, db, store := newTestService(t)
		ctx := context.Background()
		_, stage := seedStage(t, db, model.StageApproved)
		attachment := model.StageAttachment{
			StageID: stage.ID, Name: "foto.jpg", MimeType: "image/jpeg", URL: "http://files.test/a.jpg", StoragePath: "a.jpg",
		}
		So(db.Create(&attachment).Error, ShouldBeNil)

		sig, err := svc.Request(ctx, stage.ID)
		So(err, ShouldBeNil)
		So(sig.Token, ShouldNotBeEmpty)
		So(sig.LinkSentAt, ShouldNotBeNil)
		So(sig.ExpiresAt, ShouldBeNil)

		Convey("resolving the token shows an unsigned summary", func() {
			summary, err := svc.Resolve(ctx, sig.Token)
			So(err, ShouldBeNil)
			So(summary.Signature.Signed, ShouldBeFalse)
			So(summary.Stage.ID, ShouldEqual, stage.ID)
			So(summary.Project.ClientName, ShouldEqual, "Maria Silva")
			So(summary.Attachments, ShouldHaveLength, 1)
		})

		Convey("recording a signature closes the token", func() {
			recorded, err := svc.Record(ctx, RecordInput{
				Token: sig.Token, SignerName: "Maria Silva", ImageDataURL: pngDataURL(t), ClientIP: "203.0.113.5",
			})
			So(err, ShouldBeNil)
			So(*recorded.SignerName, ShouldEqual, "Maria Silva")
			So(store.uploads, ShouldHaveLength, 1)
			So(store.uploads[0], ShouldStartWith, "assinaturas/etapa-"+sig.Token+"-")
			So(store.uploads[0], ShouldEndWith, ".png")

			summary, err := svc.Resolve(ctx, sig.Token)
			So(err, ShouldBeNil)
			So(summary.Signature.Signed, ShouldBeTrue)
			So(*summary.Signature.SignerName, ShouldEqual, "Maria Silva")

			_, err = svc.Record(ctx, RecordInput{
				Token: sig.Token, SignerName: "Outra Pessoa", ImageDataURL: pngDataURL(t), ClientIP: "198.51.100.1",
			})
			So(errors.Is(err, apperr.ErrAlreadySigned), ShouldBeTrue)

			var stored model.StageSignature
			So(db.First(&stored, sig.ID).Error, ShouldBeNil)
			So(*stored.SignerName, ShouldEqual, "Maria Silva")
			So(*stored.SignerIP, ShouldEqual, "203.0.113.5")

			_, err = svc.Request(ctx, stage.ID)
			So(errors.Is(err, apperr.ErrAlreadySigned), ShouldBeTrue)
		})

		Convey("requesting again refreshes the same record", func() {
			again, err := svc.Request(ctx, stage.ID)
			So(err, ShouldBeNil)
			So(again.ID, ShouldEqual, sig.ID)
			So(again.Token, ShouldEqual, sig.Token)
		})
	})
}

func TestRequestRequiresApprovedStage(t *testing.T) {
	svc, db, _ := newTestService(t)
	_, stage := seedStage(t, db, model.StagePending)

	_, err := svc.Request(context.Background(), stage.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&model.StageSignature{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Request(context.Background(), 4040)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordRejectsBadInput(t *testing.T) {
	svc, db, store := newTestService(t)
	ctx := context.Background()
	_, stage := seedStage(t, db, model.StageApproved)
	sig, err := svc.Request(ctx, stage.ID)
	require.NoError(t, err)

	big := make([]byte, DefaultMaxImageBytes+1)
	copy(big, []byte("\x89PNG\r\n\x1a\n"))
	cases := []struct {
		name  string
		input RecordInput
		kind  error
	}{
		{"unknown token", RecordInput{Token: "nope", SignerName: "Maria", ImageDataURL: pngDataURL(t)}, apperr.ErrNotFound},
		{"missing name", RecordInput{Token: sig.Token, ImageDataURL: pngDataURL(t)}, apperr.ErrValidation},
		{"digits", RecordInput{Token: sig.Token, SignerName: "Maria 2", ImageDataURL: pngDataURL(t)}, apperr.ErrValidation},
		{"html", RecordInput{Token: sig.Token, SignerName: "<script>alert(1)</script>", ImageDataURL: pngDataURL(t)}, apperr.ErrValidation},
		{"symbols", RecordInput{Token: sig.Token, SignerName: "Maria@Silva", ImageDataURL: pngDataURL(t)}, apperr.ErrValidation},
		{"too short", RecordInput{Token: sig.Token, SignerName: "M", ImageDataURL: pngDataURL(t)}, apperr.ErrValidation},
		{"too long", RecordInput{Token: sig.Token, SignerName: strings.Repeat("a", 101), ImageDataURL: pngDataURL(t)}, apperr.ErrValidation},
		{"not a data url", RecordInput{Token: sig.Token, SignerName: "Maria", ImageDataURL: "http://x/y.png"}, apperr.ErrValidation},
		{"svg", RecordInput{Token: sig.Token, SignerName: "Maria", ImageDataURL: "data:image/svg;base64,PHN2Zz4="}, apperr.ErrValidation},
		{"webp", RecordInput{
			Token: sig.Token, SignerName: "Maria",
			ImageDataURL: "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")),
		}, apperr.ErrValidation},
		{"not an image", RecordInput{
			Token: sig.Token, SignerName: "Maria",
			ImageDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("<html>hi</html>")),
		}, apperr.ErrValidation},
		{"too large", RecordInput{
			Token: sig.Token, SignerName: "Maria",
			ImageDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(big),
		}, apperr.ErrValidation},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Record(ctx, c.input)
			assert.ErrorIs(t, err, c.kind)
		})
	}
	assert.Empty(t, store.uploads)

	_, err = svc.Record(ctx, RecordInput{
		Token: sig.Token, SignerName: "José D'Ávila-Souza Jr.", ImageDataURL: pngDataURL(t),
	})
	require.NoError(t, err)
	var stored model.StageSignature
	require.NoError(t, db.First(&stored, sig.ID).Error)
	assert.Equal(t, UnavailableIP, *stored.SignerIP)
}

func TestRecordStorageFailureWritesNothing(t *testing.T) {
	svc, db, store := newTestService(t)
	ctx := context.Background()
	_, stage := seedStage(t, db, model.StageApproved)
	sig, err := svc.Request(ctx, stage.ID)
	require.NoError(t, err)

	store.fail = true
	_, err = svc.Record(ctx, RecordInput{Token: sig.Token, SignerName: "Maria Silva", ImageDataURL: pngDataURL(t)})
	assert.ErrorIs(t, err, apperr.ErrStorage)

	var stored model.StageSignature
	require.NoError(t, db.First(&stored, sig.ID).Error)
	assert.False(t, stored.Signed())
}

func TestConcurrentRecordHasOneWinner(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	_, stage := seedStage(t, db, model.StageApproved)
	sig, err := svc.Request(ctx, stage.ID)
	require.NoError(t, err)

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Record(ctx, RecordInput{
				Token: sig.Token, SignerName: "Maria Silva", ImageDataURL: pngDataURL(t), ClientIP: "10.0.0.1",
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrAlreadySigned)
	}
	assert.Equal(t, 1, ok)
}

func TestTokenTTLAndRevoke(t *testing.T) {
	now := testNow
	svc, db, _ := newTestService(t, WithTokenTTL(48*time.Hour))
	svc.now = func() time.Time { return now }
	ctx := context.Background()
	_, stage := seedStage(t, db, model.StageApproved)

	sig, err := svc.Request(ctx, stage.ID)
	require.NoError(t, err)
	require.NotNil(t, sig.ExpiresAt)
	assert.True(t, sig.ExpiresAt.Equal(testNow.Add(48*time.Hour)))

	now = testNow.Add(49 * time.Hour)
	_, err = svc.Resolve(ctx, sig.Token)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	refreshed, err := svc.Request(ctx, stage.ID)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, refreshed.Token)
	require.NoError(t, err)

	revoked, err := svc.Revoke(ctx, stage.ID)
	require.NoError(t, err)
	assert.NotEqual(t, sig.Token, revoked.Token)
	_, err = svc.Resolve(ctx, sig.Token)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Resolve(ctx, revoked.Token)
	assert.NoError(t, err)
}

func TestGalleryOnlyImages(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	_, stage := seedStage(t, db, model.StageApproved)
	require.NoError(t, db.Create(&[]model.StageAttachment{
		{StageID: stage.ID, Name: "a.png", MimeType: "image/png", URL: "u1", StoragePath: "p1"},
		{StageID: stage.ID, Name: "b.pdf", MimeType: "application/pdf", URL: "u2", StoragePath: "p2"},
	}).Error)
	sig, err := svc.Request(ctx, stage.ID)
	require.NoError(t, err)

	images, err := svc.Gallery(ctx, sig.Token)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "a.png", images[0].Name)

	list, err := svc.ListForStages(ctx, []uint{stage.ID, stage.ID, 999})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProjectSignatureFlow(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	project, _ := seedStage(t, db, model.StageApproved)

	_, err := svc.RequestProject(ctx, project.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, db.Model(&project).Update("status", model.ProjectCompleted).Error)
	_, err = svc.RequestProject(ctx, project.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	released, err := svc.ReleaseProject(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, released.SignatureUnlocked)

	requested, err := svc.RequestProject(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, requested.SignatureToken)
	token := *requested.SignatureToken

	view, err := svc.ResolveProject(ctx, token)
	require.NoError(t, err)
	assert.False(t, view.Signed)
	assert.Equal(t, "Concluída", view.Status)

	signed, err := svc.RecordProject(ctx, RecordInput{Token: token, SignerName: "Maria Silva", ClientIP: "203.0.113.5"})
	require.NoError(t, err)
	assert.True(t, signed.Signed)
	assert.Nil(t, signed.ImageURL)

	_, err = svc.RecordProject(ctx, RecordInput{Token: token, SignerName: "Maria Silva"})
	assert.ErrorIs(t, err, apperr.ErrAlreadySigned)
	_, err = svc.RequestProject(ctx, project.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadySigned)
}
