package application

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

const (
	avatarSize     = 128
	avatarCacheTTL = 30 * time.Minute
)

// glyph theme colors: the light variant sits on dark tray backgrounds, the
// dark variant on white ones.
var (
	glyphLight = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	glyphDark  = color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
)

// AvatarResolver produces a displayable image for one account: the
// server-provided avatar cropped to a circle when it exists, a themed
// placeholder glyph otherwise. The placeholder path never fails.
type AvatarResolver struct {
	account domain.Account
	fetch   ports.AvatarFetcher
	cache   *ttlcache.Cache[string, image.Image]
	log     zerolog.Logger
}

func newAvatarResolver(account domain.Account, fetch ports.AvatarFetcher, log zerolog.Logger) *AvatarResolver {
	return &AvatarResolver{
		account: account,
		fetch:   fetch,
		cache: ttlcache.New[string, image.Image](
			ttlcache.WithTTL[string, image.Image](avatarCacheTTL),
		),
		log: log.With().Str("account", string(account.ID)).Logger(),
	}
}

// Resolve returns the account avatar. preferWhiteBackground only affects
// the placeholder: a white-background surface gets the dark glyph variant.
func (r *AvatarResolver) Resolve(ctx context.Context, preferWhiteBackground bool) image.Image {
	if item := r.cache.Get(string(r.account.ID)); item != nil {
		return item.Value()
	}

	raw, err := r.fetch.Fetch(ctx, r.account)
	if err != nil {
		r.log.Debug().Err(err).Msg("avatar fetch failed, using placeholder")
		return placeholderAvatar(preferWhiteBackground)
	}
	if len(raw) == 0 {
		return placeholderAvatar(preferWhiteBackground)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		r.log.Debug().Err(err).Msg("avatar decode failed, using placeholder")
		return placeholderAvatar(preferWhiteBackground)
	}

	avatar := circularAvatar(img)
	r.cache.Set(string(r.account.ID), avatar, ttlcache.DefaultTTL)
	return avatar
}

// circularAvatar center-crops img to a square and masks it to a circle.
func circularAvatar(img image.Image) image.Image {
	square := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	out := image.NewNRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	mask := &circleMask{cx: avatarSize / 2, cy: avatarSize / 2, r: avatarSize / 2}
	draw.DrawMask(out, out.Bounds(), square, image.Point{}, mask, image.Point{}, draw.Over)
	return out
}

// placeholderAvatar is the terminal fallback: a transparent 128x128 canvas
// with a user silhouette in the requested theme.
func placeholderAvatar(preferWhiteBackground bool) image.Image {
	tone := glyphLight
	if preferWhiteBackground {
		tone = glyphDark
	}

	img := image.NewNRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	drawUserGlyph(img, tone)
	return img
}

// drawUserGlyph paints a head-and-shoulders silhouette: a circle for the
// head and an ellipse, clipped by the canvas bottom, for the torso.
func drawUserGlyph(img *image.NRGBA, tone color.NRGBA) {
	const (
		headCX, headCY, headR = 64, 46, 24
		bodyCX, bodyCY        = 64, 132
		bodyRX, bodyRY        = 42, 44
	)

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx, dy := float64(x-headCX), float64(y-headCY)
			inHead := dx*dx+dy*dy <= headR*headR

			bx, by := float64(x-bodyCX)/bodyRX, float64(y-bodyCY)/bodyRY
			inBody := bx*bx+by*by <= 1

			if inHead || inBody {
				img.SetNRGBA(x, y, tone)
			}
		}
	}
}

// circleMask is an alpha mask that is opaque inside the circle and fully
// transparent outside it.
type circleMask struct {
	cx, cy, r int
}

func (c *circleMask) ColorModel() color.Model {
	return color.AlphaModel
}

func (c *circleMask) Bounds() image.Rectangle {
	return image.Rect(c.cx-c.r, c.cy-c.r, c.cx+c.r, c.cy+c.r)
}

func (c *circleMask) At(x, y int) color.Color {
	dx, dy := float64(x-c.cx)+0.5, float64(y-c.cy)+0.5
	if dx*dx+dy*dy <= float64(c.r*c.r) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}
