package receipt

import (
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveRecord", func() {
		var (
			record *Record
			err    error
		)

		BeforeEach(func() {
			record = &Record{
				MessageID:   "msg1",
				Date:        "15 Jan 2024",
				SenderName:  optional("Acme Store"),
				SenderEmail: optional("billing@acme.com"),
				ReceiptLink: "https://mail.google.com/mail/u/0/#inbox/msg1",
				Snippet:     "Your receipt from Acme",
				Total:       "1,234.56",
				HasPDF:      false,
			}
		})

		JustBeforeEach(func() {
			err = db.SaveRecord(record)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the record to the database", func() {
				saved, getErr := db.GetRecord("msg1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.MessageID).To(Equal("msg1"))
			})
		})

		When("the record is saved twice", func() {
			BeforeEach(func() {
				first := &Record{MessageID: "msg1", Total: "1.00"}
				Expect(db.SaveRecord(first)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should overwrite the earlier record", func() {
				saved, getErr := db.GetRecord("msg1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Total).To(Equal("1,234.56"))
			})

			It("should keep a single entry", func() {
				records, listErr := db.ListRecords()
				Expect(listErr).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(1))
			})
		})
	})

	Describe("GetRecord", func() {
		var (
			messageID string
			record    *Record
			err       error
		)

		JustBeforeEach(func() {
			record, err = db.GetRecord(messageID)
		})

		When("the record exists", func() {
			BeforeEach(func() {
				messageID = "msg1"
				stored := &Record{
					MessageID:   "msg1",
					Date:        "15 Jan 2024",
					SenderEmail: optional("billing@acme.com"),
					Total:       "5.00",
					HasPDF:      true,
				}
				Expect(db.SaveRecord(stored)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should restore the message ID", func() {
				Expect(record.MessageID).To(Equal("msg1"))
			})

			It("should restore the total", func() {
				Expect(record.Total).To(Equal("5.00"))
			})

			It("should restore the sender email", func() {
				Expect(record.SenderEmail).To(HaveValue(Equal("billing@acme.com")))
			})

			It("should restore the attachment flag", func() {
				Expect(record.HasPDF).To(BeTrue())
			})
		})

		When("the record has null sender fields", func() {
			BeforeEach(func() {
				messageID = "msg2"
				stored := &Record{MessageID: "msg2", Total: "5.00"}
				Expect(db.SaveRecord(stored)).NotTo(HaveOccurred())
			})

			It("should restore them as nil", func() {
				Expect(record.SenderName).To(BeNil())
				Expect(record.SenderEmail).To(BeNil())
			})
		})

		When("the record does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				messageID = "nonexistent"
				expectedErr = errors.New("record not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListRecords", func() {
		var (
			records []*Record
			err     error
		)

		JustBeforeEach(func() {
			records, err = db.ListRecords()
		})

		When("records exist", func() {
			BeforeEach(func() {
				record1 := &Record{MessageID: "msg1", Total: "1.00"}
				record2 := &Record{MessageID: "msg2", Total: "2.00"}
				Expect(db.SaveRecord(record1)).NotTo(HaveOccurred())
				Expect(db.SaveRecord(record2)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all records", func() {
				Expect(records).To(HaveLen(2))
			})

			It("should restore the message IDs", func() {
				ids := []string{records[0].MessageID, records[1].MessageID}
				Expect(ids).To(ConsistOf("msg1", "msg2"))
			})
		})

		When("no records exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("DeleteRecord", func() {
		var (
			messageID string
			err       error
		)

		JustBeforeEach(func() {
			err = db.DeleteRecord(messageID)
		})

		When("the record exists", func() {
			BeforeEach(func() {
				messageID = "msg1"
				record := &Record{MessageID: "msg1", Total: "1.00"}
				Expect(db.SaveRecord(record)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the record from the database", func() {
				_, getErr := db.GetRecord("msg1")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("the record does not exist", func() {
			BeforeEach(func() {
				messageID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := db.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
