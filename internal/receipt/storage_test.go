package receipt

import (
	"errors"
	"io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			filename  string
			data      []byte
			savedPath string
			err       error
		)

		BeforeEach(func() {
			filename = "msg1.pdf"
			data = []byte("%PDF-1.4 artifact content")
		})

		JustBeforeEach(func() {
			savedPath, err = storage.Save(filename, data)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the artifact name", func() {
				Expect(savedPath).To(Equal(filename))
			})

			It("should write the artifact to disk", func() {
				filePath := filepath.Join(tmpDir, filename)
				Expect(filePath).To(BeAnExistingFile())
			})
		})
	})

	Describe("Get", func() {
		var (
			filename string
			data     []byte
			err      error
		)

		JustBeforeEach(func() {
			data, err = storage.Get(filename)
		})

		When("the artifact exists", func() {
			BeforeEach(func() {
				filename = "msg1.pdf"
				_, saveErr := storage.Save(filename, []byte("artifact content"))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the artifact data", func() {
				Expect(string(data)).To(Equal("artifact content"))
			})
		})

		When("the artifact does not exist", func() {
			BeforeEach(func() {
				filename = "nonexistent.pdf"
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("reading artifact"))
			})
		})
	})

	Describe("Delete", func() {
		var (
			filename string
			err      error
		)

		JustBeforeEach(func() {
			err = storage.Delete(filename)
		})

		When("the artifact exists", func() {
			BeforeEach(func() {
				filename = "msg1_ATT.pdf"
				_, saveErr := storage.Save(filename, []byte("attachment"))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the artifact from disk", func() {
				filePath := filepath.Join(tmpDir, filename)
				Expect(filePath).NotTo(BeAnExistingFile())
			})
		})

		When("the artifact does not exist", func() {
			BeforeEach(func() {
				filename = "nonexistent.pdf"
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})

			It("should stay checkable against fs.ErrNotExist", func() {
				Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			})
		})
	})

	Describe("NewLocalStorage", func() {
		var (
			storagePath string
			storage     Storage
			err         error
		)

		JustBeforeEach(func() {
			storage, err = NewLocalStorage(storagePath)
		})

		When("the directory does not exist", func() {
			BeforeEach(func() {
				baseDir := GinkgoT().TempDir()
				storagePath = filepath.Join(baseDir, "artifacts")
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should create the directory", func() {
				Expect(storagePath).To(BeADirectory())
			})

			It("should allow saving artifacts", func() {
				_, saveErr := storage.Save("msg1.pdf", []byte("data"))
				Expect(saveErr).NotTo(HaveOccurred())
			})
		})

		When("the directory already exists", func() {
			BeforeEach(func() {
				storagePath = GinkgoT().TempDir()
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should allow saving artifacts", func() {
				_, saveErr := storage.Save("msg1.pdf", []byte("data"))
				Expect(saveErr).NotTo(HaveOccurred())
			})
		})
	})
})
