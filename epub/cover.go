package epub

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	_ "image/gif"

	_ "golang.org/x/image/webp"
)

// coverPageName is the XHTML page wrapping the cover image. It opens
// the spine when a cover is present.
const coverPageName = "cover.xhtml"

// maxCoverEdge caps cover dimensions. Reading systems render covers at
// screen size; anything larger only inflates the container.
const maxCoverEdge = 1600

// coverImage is a processed cover ready for embedding.
type coverImage struct {
	name      string
	mediaType string
	data      []byte
}

// processCover decodes the cover, scales it down when an edge exceeds
// the cap, and re-encodes. Covers that fit and already use a
// container-safe format pass through byte for byte.
func processCover(data []byte) (*coverImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	scaled := scaleDown(img)
	if scaled == img {
		switch format {
		case "jpeg":
			return &coverImage{name: "cover.jpeg", mediaType: "image/jpeg", data: data}, nil
		case "png":
			return &coverImage{name: "cover.png", mediaType: "image/png", data: data}, nil
		case "gif":
			return &coverImage{name: "cover.gif", mediaType: "image/gif", data: data}, nil
		}
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, scaled); err != nil {
			return nil, fmt.Errorf("encode image: %w", err)
		}
		return &coverImage{name: "cover.png", mediaType: "image/png", data: buf.Bytes()}, nil
	}

	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return &coverImage{name: "cover.jpeg", mediaType: "image/jpeg", data: buf.Bytes()}, nil
}

// scaleDown resizes an image whose longer edge exceeds the cap,
// preserving aspect ratio. Images within the cap return unchanged.
func scaleDown(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxCoverEdge && b.Dy() <= maxCoverEdge {
		return img
	}

	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = h * maxCoverEdge / w
		w = maxCoverEdge
	} else {
		w = w * maxCoverEdge / h
		h = maxCoverEdge
	}
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// coverPage builds the XHTML page that displays the cover image.
func coverPage(title, imageName string) []byte {
	escaped := html.EscapeString(title)

	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(xhtmlDoctype + "\n")
	fmt.Fprintf(&b, `<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>%s</title>
</head>
<body>
  <div class="cover">
    <img src="%s" alt="%s"/>
  </div>
</body>
</html>
`, escaped, imageName, escaped)
	return b.Bytes()
}
