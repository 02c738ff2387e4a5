package ownership

import (
	"sort"
	"testing"
)

func TestKey_LessIsTotalOrder(t *testing.T) {
	keys := []Key{
		{OwnerID: "b", CardID: 1, Bucket: BucketCollection},
		{OwnerID: "a", CardID: 2, Bucket: BucketCollection},
		{OwnerID: "a", CardID: 1, Bucket: BucketWishlist},
		{OwnerID: "a", CardID: 1, Bucket: BucketCollection},
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	want := []string{"a/1/collection", "a/1/wishlist", "a/2/collection", "b/1/collection"}
	for i, k := range keys {
		if k.String() != want[i] {
			t.Fatalf("keys[%d] = %s, want %s", i, k, want[i])
		}
	}
}

func TestBucket_Valid(t *testing.T) {
	if !BucketCollection.Valid() || !BucketWishlist.Valid() {
		t.Fatalf("expected known buckets to be valid")
	}
	if Bucket("vault").Valid() {
		t.Fatalf("expected unknown bucket to be invalid")
	}
}

func TestCountIDs(t *testing.T) {
	counts := CountIDs([]int64{7, 3, 7, 7, 1})
	if len(counts) != 3 || counts[7] != 3 || counts[3] != 1 || counts[1] != 1 {
		t.Fatalf("CountIDs() = %v", counts)
	}
	ids := SortedCardIDs(counts)
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 7 {
		t.Fatalf("SortedCardIDs() = %v", ids)
	}
}
