package types

import "testing"

func TestPrimitiveStringAndEquals(t *testing.T) {
	a := NewPrimitive(Int)
	b := NewPrimitive(Int)
	if !a.Equals(b) {
		t.Error("Int should equal Int")
	}
	if a.Equals(NewPrimitive(Long)) {
		t.Error("Int should not equal Long")
	}
	if a.String() != "Int" {
		t.Errorf("String() = %q, want Int", a.String())
	}
	nullable := a.WithNullable(true)
	if nullable.String() != "Int?" {
		t.Errorf("String() = %q, want Int?", nullable.String())
	}
	if a.Equals(nullable) {
		t.Error("Int should not equal Int?")
	}
}

func TestNumericPromotion(t *testing.T) {
	tests := []struct {
		a, b, want PrimitiveName
	}{
		{Int, Long, Long},
		{Long, Int, Long},
		{Float, Double, Double},
		{Int, Int, Int},
		{Int, Double, Double},
	}
	for _, tt := range tests {
		got := Promote(NewPrimitive(tt.a), NewPrimitive(tt.b))
		if got.Name() != string(tt.want) {
			t.Errorf("Promote(%s,%s) = %s, want %s", tt.a, tt.b, got.Name(), tt.want)
		}
	}
}

func TestUnitNeverNullable(t *testing.T) {
	u := NewUnit()
	if u.Nullable() {
		t.Error("Unit should never be nullable")
	}
	if u.WithNullable(true).Nullable() {
		t.Error("WithNullable(true) on Unit should still report non-nullable")
	}
}

func TestNothingIsUniversalSubtype(t *testing.T) {
	reg := NewRegistry()
	nothing := NewNothing()
	str := NewPrimitive(StringT)
	if !reg.IsSubtype(nothing, str) {
		t.Error("Nothing should be a subtype of String")
	}
	nullableNothing := nothing.WithNullable(true)
	if reg.IsSubtype(nullableNothing, str) {
		t.Error("Nothing? should not satisfy non-nullable String")
	}
	if !reg.IsSubtype(nullableNothing, str.WithNullable(true)) {
		t.Error("Nothing? should satisfy String?")
	}
}

func TestErrorTypeCompatibleWithEverything(t *testing.T) {
	reg := NewRegistry()
	errT := NewError()
	str := NewPrimitive(StringT)
	if !reg.IsSubtype(errT, str) || !reg.IsSubtype(str, errT) {
		t.Error("ErrorType should be compatible with String in both directions")
	}
}

func TestClassHierarchySubtyping(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Animal", "Any", nil)
	reg.Register("Dog", "Animal", nil)

	animal := NewClass("Animal", nil)
	dog := NewClass("Dog", animal)

	if !IsSubclassOf(dog, animal) {
		t.Error("Dog should be a subclass of Animal")
	}
	if IsSubclassOf(animal, dog) {
		t.Error("Animal should not be a subclass of Dog")
	}
	if !reg.IsSubtype(dog, animal) {
		t.Error("registry should report Dog <= Animal")
	}
	if !reg.IsSubtype(dog, NewClass("Any", nil)) {
		t.Error("every class should be a subtype of Any")
	}
}

func TestInterfaceImplementation(t *testing.T) {
	readable := NewInterfaceType("Readable")
	readable.Methods["read"] = NewFunctionType(nil, NewPrimitive(StringT))

	file := NewClass("File", nil)
	file.Interfaces = append(file.Interfaces, readable)
	file.AddMethodOverload("read", &MethodInfo{Signature: NewFunctionType(nil, NewPrimitive(StringT))})

	if !ImplementsInterface(file, readable) {
		t.Error("File should implement Readable")
	}
	if !file.HasMethod("read") {
		t.Error("File should have a read method")
	}
}

func TestVarianceCompatibility(t *testing.T) {
	reg := NewRegistry()
	tp := &TypeParameter{Name: "T", Variance: Out}

	list := NewClass("List", nil)
	list.TypeParams = []*TypeParameter{tp}

	animal := NewClass("Animal", nil)
	dog := NewClass("Dog", animal)
	reg.Register("Animal", "Any", nil)
	reg.Register("Dog", "Animal", nil)

	listOfDog := &ClassType{}
	*listOfDog = *list
	listOfDog.TypeArgs = []TypeArgumentValue{{Type: dog}}

	listOfAnimal := &ClassType{}
	*listOfAnimal = *list
	listOfAnimal.TypeArgs = []TypeArgumentValue{{Type: animal}}

	if !reg.IsSubtype(listOfDog, listOfAnimal) {
		t.Error("List<Dog> should be a subtype of List<Animal> under out-variance")
	}
}

func TestFunctionTypeEquality(t *testing.T) {
	f1 := NewFunctionType([]Type{NewPrimitive(Int)}, NewPrimitive(StringT))
	f2 := NewFunctionType([]Type{NewPrimitive(Int)}, NewPrimitive(StringT))
	f3 := NewFunctionType([]Type{NewPrimitive(Long)}, NewPrimitive(StringT))

	if !f1.Equals(f2) {
		t.Error("identical function types should be equal")
	}
	if f1.Equals(f3) {
		t.Error("function types with different params should not be equal")
	}
	if f1.String() != "(Int) -> String" {
		t.Errorf("String() = %q", f1.String())
	}
}
