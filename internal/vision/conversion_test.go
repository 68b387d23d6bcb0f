package vision

import (
	"bytes"
	"image"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func encodePNG() []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("prepareImageData", func() {
	When("the upload is already PNG", func() {
		It("should pass the data through unconverted", func() {
			data := encodePNG()
			out, converted, err := prepareImageData(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(converted).To(BeFalse())
			Expect(out).To(Equal(data))
		})
	})

	When("the upload cannot be decoded", func() {
		It("should return ErrUnsupportedImage for garbage bytes", func() {
			_, _, err := prepareImageData([]byte("definitely not an image"), "image/jpeg")
			Expect(err).To(MatchError(ErrUnsupportedImage))
		})

		It("should return ErrUnsupportedImage for a truncated HEIC payload", func() {
			// A valid ftyp box header followed by nothing decodable
			data := append([]byte{0, 0, 0, 24}, []byte("ftypheic garbage")...)
			_, _, err := prepareImageData(data, "image/heic")
			Expect(err).To(MatchError(ErrUnsupportedImage))
		})
	})
})
