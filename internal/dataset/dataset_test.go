package dataset

import (
	"errors"
	"io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zzenonn/go-mckp"
)

func categoryNames(ds mckp.Dataset) []string {
	names := make([]string, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		names = append(names, c.Name)
	}
	return names
}

var _ = Describe("Load", func() {
	Context("with a JSON file", func() {
		var ds mckp.Dataset

		BeforeEach(func() {
			var err error
			ds, err = Load(filepath.Join("testdata", "armors.json"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep categories in file order", func() {
			Expect(categoryNames(ds)).To(Equal([]string{"Helmet", "Chest", "Gauntlet", "Pant"}))
		})

		It("should keep records and attributes in file order", func() {
			helmet := ds.Categories[0]
			Expect(helmet.Items).To(HaveLen(2))
			Expect(helmet.Items[0].Name).To(Equal("iron helm"))
			Expect(helmet.Items[0].Weight).To(Equal(4.5))
			Expect(helmet.Items[0].Attributes).To(Equal([]mckp.Attribute{
				{Name: "Phy", Value: 3.2},
				{Name: "Fire", Value: 1.1},
				{Name: "Ratio", Value: 0.71},
			}))
		})

		It("should list the maximizable attributes", func() {
			Expect(ds.Attributes(mckp.DefaultSchema())).To(Equal([]string{"Phy", "Fire"}))
		})

		It("should produce a dataset the solver accepts", func() {
			cfg, err := mckp.Solve(ds, 15, "Phy")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Choices).To(HaveLen(4))
			Expect(cfg.TotalWeight(ds)).To(BeNumerically("<=", 15))
		})
	})

	Context("with a YAML file", func() {
		It("should accept the Wgt column and keep key order", func() {
			ds, err := Load(filepath.Join("testdata", "armors.yaml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(categoryNames(ds)).To(Equal([]string{"Pant", "Helmet"}))
			Expect(ds.Categories[0].Items[0]).To(Equal(mckp.NewItem("trousers", 1,
				mckp.Attribute{Name: "Phy", Value: 0.4},
				mckp.Attribute{Name: "Fire", Value: 0.3},
			)))
			Expect(ds.Categories[1].Items[0].Weight).To(Equal(4.5))
		})
	})

	Context("with an unsupported or missing file", func() {
		It("should reject unknown extensions", func() {
			_, err := Load("armors.xlsx")
			Expect(err).To(MatchError(ErrUnsupportedFormat))
		})

		It("should report a missing file", func() {
			_, err := Load(filepath.Join(GinkgoT().TempDir(), "none.json"))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("reading dataset"))
		})
	})
})

var _ = Describe("Decode", func() {
	DescribeTable("malformed JSON",
		func(body string) {
			_, err := Decode([]byte(body), FormatJSON)
			Expect(err).To(MatchError(ErrMalformed))
		},
		Entry("top level list", `[{"Name": "a"}]`),
		Entry("category not a list", `{"Helmet": {"Name": "a"}}`),
		Entry("missing name", `{"Helmet": [{"Weight": 1}]}`),
		Entry("numeric name", `{"Helmet": [{"Name": 3, "Weight": 1}]}`),
		Entry("missing weight", `{"Helmet": [{"Name": "a", "Phy": 1}]}`),
		Entry("weight as text", `{"Helmet": [{"Name": "a", "Weight": "heavy"}]}`),
		Entry("weight and alias", `{"Helmet": [{"Name": "a", "Weight": 1, "Wgt": 1}]}`),
		Entry("text attribute", `{"Helmet": [{"Name": "a", "Weight": 1, "Phy": "high"}]}`),
		Entry("nested attribute", `{"Helmet": [{"Name": "a", "Weight": 1, "Phy": [1]}]}`),
		Entry("truncated", `{"Helmet": [{"Name": "a", "Weight": 1}`),
		Entry("trailing data", `{"Helmet": []} {}`),
	)

	DescribeTable("malformed YAML",
		func(body string) {
			_, err := Decode([]byte(body), FormatYAML)
			Expect(err).To(MatchError(ErrMalformed))
		},
		Entry("empty document", ``),
		Entry("top level list", "- Name: a\n"),
		Entry("category not a list", "Helmet:\n  Name: a\n"),
		Entry("record not a mapping", "Helmet:\n  - a\n"),
		Entry("quoted weight", "Helmet:\n  - {Name: a, Weight: \"1\"}\n"),
		Entry("nested attribute", "Helmet:\n  - {Name: a, Weight: 1, Phy: [1]}\n"),
		Entry("invalid syntax", "Helmet: [\n"),
	)

	It("should keep empty categories for the solver to reject", func() {
		ds, err := Decode([]byte(`{"Helmet": [], "Chest": [{"Name": "a", "Weight": 1}]}`), FormatJSON)
		Expect(err).NotTo(HaveOccurred())
		Expect(ds.Categories).To(HaveLen(2))
		Expect(ds.Categories[0].Items).To(BeEmpty())

		_, err = mckp.Solve(ds, 10, "Phy")
		Expect(err).To(MatchError(mckp.ErrInvalidInput))
	})

	It("should treat Ratio as an ordinary attribute", func() {
		ds, err := Decode([]byte(`{"Helmet": [{"Ratio": 0.5, "Name": "a", "Wgt": 2}]}`), FormatJSON)
		Expect(err).NotTo(HaveOccurred())
		Expect(ds.Categories[0].Items[0]).To(Equal(mckp.NewItem("a", 2, mckp.Attribute{Name: "Ratio", Value: 0.5})))
	})
})

var _ = Describe("FormatFromPath", func() {
	It("should recognise JSON and YAML extensions", func() {
		for path, want := range map[string]Format{"a.json": FormatJSON, "b.YAML": FormatYAML, "c.yml": FormatYAML} {
			got, err := FormatFromPath(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		}
		Expect(FormatJSON.String()).To(Equal("json"))
		Expect(Format(7).String()).To(Equal("Format(7)"))
	})
})
