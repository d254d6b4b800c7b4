package kv1

import "testing"

func TestBuildIndexSizeInvariant(t *testing.T) {
	r := &Records{
		OrganizationalUnits: []OrganizationalUnit{
			{Key: OrganizationalUnitKey{"TST", "OU1"}},
			{Key: OrganizationalUnitKey{"TST", "OU2"}},
		},
		Notices: []Notice{
			{Key: NoticeKey{"TST", "N1"}},
		},
		NoticeAssignments: []NoticeAssignment{
			{DataOwnerCode: "TST", NoticeCode: "N1"},
		},
	}
	idx := BuildIndex(r)
	if got, want := idx.Size()+len(r.NoticeAssignments), r.Total(); got != want {
		t.Errorf("Index.Size()+len(NoticeAssignments) = %d, want Records.Total() = %d", got, want)
	}
}

func TestBuildIndexDuplicateKeyLastWriteWins(t *testing.T) {
	r := &Records{
		OrganizationalUnits: []OrganizationalUnit{
			{Key: OrganizationalUnitKey{"TST", "OU1"}, Name: "first"},
			{Key: OrganizationalUnitKey{"TST", "OU1"}, Name: "second"},
		},
	}
	idx := BuildIndex(r)
	if idx.DuplicateKeys["OrganizationalUnit"] != 1 {
		t.Fatalf("DuplicateKeys[OrganizationalUnit] = %d, want 1", idx.DuplicateKeys["OrganizationalUnit"])
	}
	i := idx.OrganizationalUnits[OrganizationalUnitKey{"TST", "OU1"}]
	if r.OrganizationalUnits[i].Name != "second" {
		t.Errorf("index resolved to %q, want the later row to win", r.OrganizationalUnits[i].Name)
	}
}
