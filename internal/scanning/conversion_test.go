package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func pngFixture(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("PrepareImage", func() {
	var (
		input       []byte
		contentType string
		output      []byte
		err         error
	)

	JustBeforeEach(func() {
		output, err = PrepareImage(input, contentType)
	})

	When("given a PNG", func() {
		BeforeEach(func() {
			input = pngFixture(64, 32)
			contentType = "image/png"
		})

		It("should re-encode it as JPEG", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(output[:2]).To(Equal([]byte{0xFF, 0xD8}))
		})

		It("should preserve the dimensions", func() {
			cfg, _, decodeErr := image.DecodeConfig(bytes.NewReader(output))
			Expect(decodeErr).NotTo(HaveOccurred())
			Expect(cfg.Width).To(Equal(64))
			Expect(cfg.Height).To(Equal(32))
		})
	})

	When("given bytes that are not an image", func() {
		BeforeEach(func() {
			input = []byte("definitely not an image")
			contentType = "application/octet-stream"
		})

		It("should report the supported formats", func() {
			Expect(err).To(MatchError(ContainSubstring("unsupported image format")))
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	It("should detect a heic ftyp brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic0000")...)
		Expect(isHEICFormat(data)).To(BeTrue())
	})

	It("should reject short or foreign data", func() {
		Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
		Expect(isHEICFormat(append([]byte{0, 0, 0, 24}, []byte("ftypisom0000")...))).To(BeFalse())
	})
})
